package cloud

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoDBAPI is the subset of the DynamoDB client the adapter uses (allows mocking in tests)
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DynamoDB performs single-item and query operations against an injected client
type DynamoDB struct {
	client DynamoDBAPI
}

// NewDynamoDB creates a DynamoDB adapter
func NewDynamoDB(client DynamoDBAPI) *DynamoDB {
	return &DynamoDB{client: client}
}

// Create writes item into the named table. An existing item with the same key
// is silently replaced; there is no conditional-write guard.
func (d *DynamoDB) Create(ctx context.Context, tableName string, item map[string]any) (string, error) {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return "", err
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(tableName),
		Item:      av,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Item created in %s", tableName), nil
}

// Read fetches one item by its exact key. A missing item returns an empty
// map, not an error.
func (d *DynamoDB) Read(ctx context.Context, tableName string, key map[string]any) (map[string]any, error) {
	av, err := attributevalue.MarshalMap(key)
	if err != nil {
		return nil, err
	}

	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(tableName),
		Key:       av,
	})
	if err != nil {
		return nil, err
	}

	item := map[string]any{}
	if out.Item == nil {
		return item, nil
	}
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update sets every field in updates on the item at key, one substituted
// placeholder per field named after the field itself. Attribute names are not
// aliased, so a field name colliding with a DynamoDB reserved word fails the
// call with a validation error.
func (d *DynamoDB) Update(ctx context.Context, tableName string, key, updates map[string]any) (string, error) {
	keyAV, err := attributevalue.MarshalMap(key)
	if err != nil {
		return "", err
	}

	expr, values := buildUpdateExpression(updates)
	valuesAV, err := attributevalue.MarshalMap(values)
	if err != nil {
		return "", err
	}

	_, err = d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(tableName),
		Key:                       keyAV,
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeValues: valuesAV,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Item updated in %s", tableName), nil
}

// Query passes the caller's condition expression and bound values straight
// through and returns the matching items (empty slice if none). Value keys
// must carry their ":" prefix.
func (d *DynamoDB) Query(ctx context.Context, tableName, keyCondition string, exprAttrValues map[string]any) ([]map[string]any, error) {
	valuesAV, err := attributevalue.MarshalMap(exprAttrValues)
	if err != nil {
		return nil, err
	}

	out, err := d.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(tableName),
		KeyConditionExpression:    aws.String(keyCondition),
		ExpressionAttributeValues: valuesAV,
	})
	if err != nil {
		return nil, err
	}

	items := make([]map[string]any, 0, len(out.Items))
	for _, raw := range out.Items {
		item := map[string]any{}
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// buildUpdateExpression produces "SET a = :a, b = :b" plus the ":"-prefixed
// value map. Field names are sorted so the expression is deterministic.
func buildUpdateExpression(updates map[string]any) (string, map[string]any) {
	names := make([]string, 0, len(updates))
	for name := range updates {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	values := make(map[string]any, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s = :%s", name, name))
		values[":"+name] = updates[name]
	}
	return "SET " + strings.Join(parts, ", "), values
}
