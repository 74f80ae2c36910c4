package propertyRepo

import (
	"context"
	"fmt"

	"shortlet/database"
	"shortlet/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// PropertyRepository is a read-only view over property and agent documents.
// Their lifecycle is owned by the listings service; the booking core only
// snapshots rates from them at creation time.
type PropertyRepository interface {
	GetPropertyByID(ctx context.Context, id string) (*models.Property, error)
	GetAgentByID(ctx context.Context, id string) (*models.Agent, error)
}

// MongoPropertyRepo is the MongoDB implementation of PropertyRepository.
type MongoPropertyRepo struct {
	propertyColl *mongo.Collection
	agentColl    *mongo.Collection
}

func NewMongoPropertyRepo() *MongoPropertyRepo {
	return &MongoPropertyRepo{
		propertyColl: database.Collection("properties"),
		agentColl:    database.Collection("agents"),
	}
}

func (r *MongoPropertyRepo) GetPropertyByID(ctx context.Context, id string) (*models.Property, error) {
	var p models.Property
	err := r.propertyColl.FindOne(ctx, bson.M{"id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch property %s: %w", id, err)
	}
	return &p, nil
}

func (r *MongoPropertyRepo) GetAgentByID(ctx context.Context, id string) (*models.Agent, error) {
	var a models.Agent
	err := r.agentColl.FindOne(ctx, bson.M{"id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch agent %s: %w", id, err)
	}
	return &a, nil
}
