package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"tutor-agent/internal/domain"
)

const (
	skPrefixRec = "REC#"
	ttlDuration = 30 * 24 * time.Hour // 30-day TTL on interaction records
)

// dynamodbAPI is the minimal DynamoDB interface required by DynamoStore.
// Defined here for testability.
type dynamodbAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoStore is the Interaction recorder backed by a single DynamoDB table.
// Records are keyed SESSION#<id> / REC#<timestamp>#<uuid> so they sort
// chronologically per session and never collide.
type DynamoStore struct {
	api       dynamodbAPI
	tableName string

	newID func() string
}

func NewDynamoStore(api dynamodbAPI, tableName string) (*DynamoStore, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &DynamoStore{api: api, tableName: tableName, newID: uuid.NewString}, nil
}

func sessionPK(sessionID string) string {
	return "SESSION#" + sessionID
}

func recordSK(ts time.Time, id string) string {
	return skPrefixRec + ts.UTC().Format(time.RFC3339Nano) + "#" + id
}

// Record writes one interaction item. The condition expression guards
// against overwriting an existing record.
func (s *DynamoStore) Record(ctx context.Context, in domain.Interaction) error {
	_, err := s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                s.interactionItem(in),
		ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		return fmt.Errorf("repository: put interaction: %w", err)
	}
	return nil
}

func (s *DynamoStore) interactionItem(in domain.Interaction) map[string]types.AttributeValue {
	ts := in.Timestamp.UTC()
	return map[string]types.AttributeValue{
		"PK":              &types.AttributeValueMemberS{Value: sessionPK(in.SessionID)},
		"SK":              &types.AttributeValueMemberS{Value: recordSK(ts, s.newID())},
		"sessionId":       &types.AttributeValueMemberS{Value: in.SessionID},
		"timestamp":       &types.AttributeValueMemberS{Value: ts.Format(time.RFC3339Nano)},
		"persona":         &types.AttributeValueMemberS{Value: in.Persona},
		"user_message":    &types.AttributeValueMemberS{Value: in.UserMessage},
		"assistant_reply": &types.AttributeValueMemberS{Value: in.AssistantReply},
		"tokens_used":     &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", in.TokensUsed)},
		"ttl":             &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", ts.Add(ttlDuration).Unix())},
	}
}
