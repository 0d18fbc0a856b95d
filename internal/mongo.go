package internal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"evocpi/entity"
	"evocpi/entity/tariff"
	"evocpi/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionLog         = "sys_log"
	collectionLocations   = "locations"
	collectionTariffs     = "tariffs"
	collectionSessions    = "sessions"
	collectionCdrs        = "cdrs"
	collectionTokens      = "tokens"
	collectionCredentials = "credentials"
	collectionParties     = "parties"
)

type MongoDB struct {
	client   *mongo.Client
	database string
}

func NewMongoClient(conf *config.Config) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}
	return &MongoDB{
		client:   client,
		database: conf.Mongo.Database,
	}, nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *MongoDB) collection(name string) *mongo.Collection {
	return m.client.Database(m.database).Collection(name)
}

func findAll[T any](ctx context.Context, collection *mongo.Collection, filter interface{}) ([]*T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var result []*T
	if err = cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func findOne[T any](ctx context.Context, collection *mongo.Collection, filter interface{}) (*T, error) {
	var result T
	err := collection.FindOne(ctx, filter).Decode(&result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func ownerFilter(owner entity.OwnerFilter) bson.D {
	if owner.All {
		return bson.D{}
	}
	parties := bson.A{}
	for _, p := range owner.Parties {
		parties = append(parties, bson.D{
			{Key: "cdr_token.country_code", Value: p.CountryCode},
			{Key: "cdr_token.party_id", Value: p.PartyId},
		})
	}
	if len(parties) == 0 {
		// no party, nothing visible
		return bson.D{{Key: "_id", Value: bson.D{{Key: "$exists", Value: false}}}}
	}
	return bson.D{{Key: "$or", Value: parties}}
}

func (m *MongoDB) WriteLogMessage(ctx context.Context, message *FeatureLogMessage) error {
	_, err := m.collection(collectionLog).InsertOne(ctx, message)
	return err
}

func (m *MongoDB) Locations(ctx context.Context) ([]*entity.Location, error) {
	return findAll[entity.Location](ctx, m.collection(collectionLocations), bson.D{{Key: "publish", Value: true}})
}

func (m *MongoDB) Location(ctx context.Context, id string) (*entity.Location, error) {
	return findOne[entity.Location](ctx, m.collection(collectionLocations), bson.D{{Key: "id", Value: id}, {Key: "publish", Value: true}})
}

func (m *MongoDB) Tariffs(ctx context.Context) ([]*tariff.Tariff, error) {
	return findAll[tariff.Tariff](ctx, m.collection(collectionTariffs), bson.D{})
}

func (m *MongoDB) Tariff(ctx context.Context, id string) (*tariff.Tariff, error) {
	return findOne[tariff.Tariff](ctx, m.collection(collectionTariffs), bson.D{{Key: "id", Value: id}})
}

func (m *MongoDB) Sessions(ctx context.Context, owner entity.OwnerFilter) ([]*entity.Session, error) {
	return findAll[entity.Session](ctx, m.collection(collectionSessions), ownerFilter(owner))
}

func (m *MongoDB) Session(ctx context.Context, id string) (*entity.Session, error) {
	return findOne[entity.Session](ctx, m.collection(collectionSessions), bson.D{{Key: "id", Value: id}})
}

func (m *MongoDB) Cdrs(ctx context.Context, owner entity.OwnerFilter) ([]*entity.Cdr, error) {
	return findAll[entity.Cdr](ctx, m.collection(collectionCdrs), ownerFilter(owner))
}

func (m *MongoDB) Cdr(ctx context.Context, id string) (*entity.Cdr, error) {
	return findOne[entity.Cdr](ctx, m.collection(collectionCdrs), bson.D{{Key: "id", Value: id}})
}

func tokenKey(countryCode, partyId, uid string, tokenType entity.TokenType) bson.D {
	return bson.D{
		{Key: "country_code", Value: countryCode},
		{Key: "party_id", Value: partyId},
		{Key: "uid", Value: uid},
		{Key: "type", Value: tokenType},
	}
}

func (m *MongoDB) Tokens(ctx context.Context, countryCode, partyId string) ([]*entity.Token, error) {
	filter := bson.D{{Key: "country_code", Value: countryCode}, {Key: "party_id", Value: partyId}}
	return findAll[entity.Token](ctx, m.collection(collectionTokens), filter)
}

func (m *MongoDB) Token(ctx context.Context, countryCode, partyId, uid string, tokenType entity.TokenType) (*entity.Token, error) {
	return findOne[entity.Token](ctx, m.collection(collectionTokens), tokenKey(countryCode, partyId, uid, tokenType))
}

func (m *MongoDB) PutToken(ctx context.Context, token *entity.Token) (bool, error) {
	filter := tokenKey(token.CountryCode, token.PartyId, token.Uid, token.Type)
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	set := bson.M{
		"country_code":  token.CountryCode,
		"party_id":      token.PartyId,
		"uid":           token.Uid,
		"type":          token.Type,
		"contract_id":   token.ContractId,
		"visual_number": token.VisualNumber,
		"issuer":        token.Issuer,
		"group_id":      token.GroupId,
		"valid":         token.Valid,
		"whitelist":     token.Whitelist,
		"language":      token.Language,
		"last_updated":  token.LastUpdated,
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"created_at": token.CreatedAt},
	}
	result, err := m.collection(collectionTokens).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return result.UpsertedCount > 0, nil
}

func (m *MongoDB) DeleteToken(ctx context.Context, countryCode, partyId, uid string, tokenType entity.TokenType) error {
	result, err := m.collection(collectionTokens).DeleteOne(ctx, tokenKey(countryCode, partyId, uid, tokenType))
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoDB) Credential(ctx context.Context, token string) (*entity.Identity, error) {
	return findOne[entity.Identity](ctx, m.collection(collectionCredentials), bson.D{{Key: "token", Value: token}})
}

func (m *MongoDB) Party(ctx context.Context, id string) (*entity.RemoteParty, error) {
	return findOne[entity.RemoteParty](ctx, m.collection(collectionParties), bson.D{{Key: "id", Value: id}})
}
