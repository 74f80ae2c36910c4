package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"shortlet/utils"

	"go.uber.org/zap"
)

// WebhookEvent is the gateway's push payload. Only charge.success with a
// success status triggers reconciliation; everything else is acknowledged
// and ignored.
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		ID        int64  `json:"id"`
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
		Channel   string `json:"channel"`
		PaidAt    string `json:"paid_at"`
	} `json:"data"`
}

// HandleWebhook verifies the HMAC-SHA512 signature over the raw body before
// trusting anything in it, then applies the same idempotent confirmation
// path as synchronous verification. Duplicate deliveries are no-op successes.
func (s *DefaultPaymentService) HandleWebhook(ctx context.Context, signature string, body []byte) error {
	logger := utils.GetLogger()

	if !s.validSignature(signature, body) {
		logger.Warn("webhook signature mismatch; possible spoofed event",
			zap.Int("bodyBytes", len(body)))
		return utils.NewSignatureError("invalid webhook signature")
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return utils.NewValidationError("malformed webhook payload")
	}

	if event.Event != "charge.success" || event.Data.Status != "success" {
		logger.Debug("ignoring webhook event",
			zap.String("event", event.Event), zap.String("status", event.Data.Status))
		return nil
	}

	link, err := s.Repo.GetLinkByReference(ctx, event.Data.Reference)
	if err != nil {
		return err
	}
	if link == nil {
		return utils.NewNotFoundError("unknown payment reference")
	}

	paymentID := ""
	if event.Data.ID != 0 {
		paymentID = strconv.FormatInt(event.Data.ID, 10)
	}
	return s.applyConfirmation(ctx, link, paymentID, event.Data.Status, event.Data.Channel, parseGatewayTime(event.Data.PaidAt))
}

func (s *DefaultPaymentService) validSignature(signature string, body []byte) bool {
	mac := hmac.New(sha512.New, []byte(s.WebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
