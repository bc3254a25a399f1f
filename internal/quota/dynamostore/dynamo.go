// Package dynamostore keeps quota counters in a DynamoDB table shared by
// every service instance.
//
// Table layout: partition key "counterKey" (S), "mb" (N), and "ttl" (N, unix
// seconds). Enable DynamoDB TTL on "ttl" to let the table drop expired
// counters on its own; reads ignore them either way.
package dynamostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"kimbo/internal/quota"
)

const maxAttempts = 4

var ErrContention = errors.New("counter kept changing between conditional writes")

// API is the subset of the DynamoDB client the store uses.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// CounterItem is a single item in the counters table.
type CounterItem struct {
	CounterKey string  `dynamodbav:"counterKey"`
	MB         float64 `dynamodbav:"mb"`
	TTL        int64   `dynamodbav:"ttl"`
}

// Store implements quota.CounterStore with conditional writes: a live
// counter is bumped with an atomic ADD, an expired or missing one is
// replaced with a conditional put.
type Store struct {
	client API
	table  string
}

func New(client API, table string) *Store {
	return &Store{client: client, table: table}
}

func (s *Store) AddAndGet(ctx context.Context, inc quota.Increment) (float64, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		mb, err := s.addLive(ctx, inc)
		if err == nil {
			return mb, nil
		}
		if !isConditionFailed(err) {
			return 0, fmt.Errorf("failed to update counter %s: %w", inc.Key, err)
		}

		err = s.restart(ctx, inc)
		if err == nil {
			return inc.DeltaMB, nil
		}
		if !isConditionFailed(err) {
			return 0, fmt.Errorf("failed to reset counter %s: %w", inc.Key, err)
		}
		// Another writer created a live counter between our two calls.
	}
	return 0, fmt.Errorf("%w: %s", ErrContention, inc.Key)
}

func (s *Store) Get(ctx context.Context, key string, at time.Time) (float64, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            keyAttr(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get counter %s: %w", key, err)
	}
	if out.Item == nil {
		return 0, nil
	}

	var item CounterItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return 0, fmt.Errorf("failed to unmarshal counter %s: %w", key, err)
	}
	if item.TTL <= at.Unix() {
		return 0, nil
	}
	return item.MB, nil
}

func (s *Store) addLive(ctx context.Context, inc quota.Increment) (float64, error) {
	values, err := attributevalue.MarshalMap(map[string]any{
		":d":   inc.DeltaMB,
		":ttl": inc.ExpiresAt.Unix(),
		":now": inc.At.Unix(),
	})
	if err != nil {
		return 0, err
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       keyAttr(inc.Key),
		UpdateExpression:          aws.String("ADD mb :d SET #ttl = :ttl"),
		ConditionExpression:       aws.String("attribute_exists(counterKey) AND #ttl > :now"),
		ExpressionAttributeNames:  map[string]string{"#ttl": "ttl"},
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, err
	}

	var mb float64
	if err := attributevalue.Unmarshal(out.Attributes["mb"], &mb); err != nil {
		return 0, fmt.Errorf("failed to unmarshal counter value: %w", err)
	}
	return mb, nil
}

func (s *Store) restart(ctx context.Context, inc quota.Increment) error {
	item, err := attributevalue.MarshalMap(CounterItem{
		CounterKey: inc.Key,
		MB:         inc.DeltaMB,
		TTL:        inc.ExpiresAt.Unix(),
	})
	if err != nil {
		return err
	}
	now, err := attributevalue.Marshal(inc.At.Unix())
	if err != nil {
		return err
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(s.table),
		Item:                      item,
		ConditionExpression:       aws.String("attribute_not_exists(counterKey) OR #ttl <= :now"),
		ExpressionAttributeNames:  map[string]string{"#ttl": "ttl"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":now": now},
	})
	return err
}

func keyAttr(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"counterKey": &types.AttributeValueMemberS{Value: key},
	}
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
