package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of the DynamoDB client the cache uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// dynamoItem is the stored shape. The table uses "key" as its hash key and
// "ttl" as its TTL attribute.
type dynamoItem struct {
	Key   string `dynamodbav:"key"`
	Value []byte `dynamodbav:"value"`
	TTL   int64  `dynamodbav:"ttl,omitempty"`
}

// Dynamo is a shared cache stored in a DynamoDB table, visible to every
// bulkdozer process that points at the same table.
type Dynamo struct {
	client DynamoAPI
	table  string
	now    func() time.Time
}

// NewDynamo creates a cache over an existing client.
func NewDynamo(client DynamoAPI, table string) *Dynamo {
	return &Dynamo{client: client, table: table, now: time.Now}
}

// NewDynamoFromConfig loads the AWS configuration and creates the cache.
func NewDynamoFromConfig(ctx context.Context, cfg Config) (*Dynamo, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.DynamoProfile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.DynamoProfile))
	}
	if cfg.DynamoRegion != "" {
		opts = append(opts, config.WithRegion(cfg.DynamoRegion))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoEndpoint)
		}
	})
	return NewDynamo(client, cfg.DynamoTable), nil
}

func (d *Dynamo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.table),
		Key:            map[string]types.AttributeValue{"key": &types.AttributeValueMemberS{Value: key}},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cache item: %w", err)
	}
	if out.Item == nil || d.expired(out.Item) {
		return nil, false, nil
	}

	var item dynamoItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, false, fmt.Errorf("failed to decode cache item: %w", err)
	}
	return item.Value, true, nil
}

func (d *Dynamo) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	item := dynamoItem{Key: key, Value: value}
	if ttl > 0 {
		item.TTL = d.now().Add(ttl).Unix()
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to encode cache item: %w", err)
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put cache item: %w", err)
	}
	return nil
}

// expired reports whether the TTL has passed. DynamoDB deletes expired
// items lazily, so reads must filter them.
func (d *Dynamo) expired(item map[string]types.AttributeValue) bool {
	attr, ok := item["ttl"].(*types.AttributeValueMemberN)
	if !ok {
		return false
	}
	ttl, err := strconv.ParseInt(attr.Value, 10, 64)
	if err != nil {
		return false
	}
	return ttl <= d.now().Unix()
}
