package tools

import (
	"context"
	"fmt"

	"github.com/rathore/aws-agent/cloud"
)

// DynamoDBCreateTool writes an item into a table
type DynamoDBCreateTool struct {
	DynamoDB *cloud.DynamoDB
}

func (t *DynamoDBCreateTool) Name() string {
	return "dynamodb_create"
}

func (t *DynamoDBCreateTool) Description() string {
	return "Create an item in a DynamoDB table. An existing item with the same key is replaced. Use when the user asks to insert or store data."
}

func (t *DynamoDBCreateTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"table_name": map[string]any{
				"type":        "string",
				"description": "Name of the DynamoDB table",
			},
			"item": map[string]any{
				"type":        "object",
				"description": "Full item to write, including its key attributes",
			},
		},
		"required": []string{"table_name", "item"},
	}
}

func (t *DynamoDBCreateTool) Call(ctx context.Context, params map[string]any) (string, error) {
	tableName := stringParam(params, "table_name")
	if tableName == "" {
		return "", fmt.Errorf("table_name parameter required")
	}
	item := mapParam(params, "item")
	if item == nil {
		return "", fmt.Errorf("item parameter required")
	}
	return t.DynamoDB.Create(ctx, tableName, item)
}

// DynamoDBReadTool fetches one item by key
type DynamoDBReadTool struct {
	DynamoDB *cloud.DynamoDB
}

func (t *DynamoDBReadTool) Name() string {
	return "dynamodb_read"
}

func (t *DynamoDBReadTool) Description() string {
	return "Read one item from a DynamoDB table by its exact key. Returns an empty object when no item matches."
}

func (t *DynamoDBReadTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"table_name": map[string]any{
				"type":        "string",
				"description": "Name of the DynamoDB table",
			},
			"key": map[string]any{
				"type":        "object",
				"description": "Primary key of the item, e.g. {\"id\": \"u1\"}",
			},
		},
		"required": []string{"table_name", "key"},
	}
}

func (t *DynamoDBReadTool) Call(ctx context.Context, params map[string]any) (string, error) {
	tableName := stringParam(params, "table_name")
	if tableName == "" {
		return "", fmt.Errorf("table_name parameter required")
	}
	key := mapParam(params, "key")
	if key == nil {
		return "", fmt.Errorf("key parameter required")
	}

	item, err := t.DynamoDB.Read(ctx, tableName, key)
	if err != nil {
		return "", err
	}
	return formatJSON(item), nil
}

// DynamoDBUpdateTool sets fields on an existing item
type DynamoDBUpdateTool struct {
	DynamoDB *cloud.DynamoDB
}

func (t *DynamoDBUpdateTool) Name() string {
	return "dynamodb_update"
}

func (t *DynamoDBUpdateTool) Description() string {
	return "Update an item in a DynamoDB table, setting each given field to its new value. Field names must not be DynamoDB reserved words."
}

func (t *DynamoDBUpdateTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"table_name": map[string]any{
				"type":        "string",
				"description": "Name of the DynamoDB table",
			},
			"key": map[string]any{
				"type":        "object",
				"description": "Primary key of the item to update",
			},
			"updates": map[string]any{
				"type":        "object",
				"description": "Field names and their new values",
			},
		},
		"required": []string{"table_name", "key", "updates"},
	}
}

func (t *DynamoDBUpdateTool) Call(ctx context.Context, params map[string]any) (string, error) {
	tableName := stringParam(params, "table_name")
	if tableName == "" {
		return "", fmt.Errorf("table_name parameter required")
	}
	key := mapParam(params, "key")
	if key == nil {
		return "", fmt.Errorf("key parameter required")
	}
	updates := mapParam(params, "updates")
	if updates == nil {
		return "", fmt.Errorf("updates parameter required")
	}
	return t.DynamoDB.Update(ctx, tableName, key, updates)
}

// DynamoDBQueryTool runs a key condition query
type DynamoDBQueryTool struct {
	DynamoDB *cloud.DynamoDB
}

func (t *DynamoDBQueryTool) Name() string {
	return "dynamodb_query"
}

func (t *DynamoDBQueryTool) Description() string {
	return "Query a DynamoDB table with a key condition expression, e.g. \"id = :id\" with expression values {\":id\": \"u1\"}. Returns the matching items."
}

func (t *DynamoDBQueryTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"table_name": map[string]any{
				"type":        "string",
				"description": "Name of the DynamoDB table",
			},
			"key_condition": map[string]any{
				"type":        "string",
				"description": "Key condition expression using \":\"-prefixed placeholders",
			},
			"expr_attr_values": map[string]any{
				"type":        "object",
				"description": "Values bound to the placeholders, keys including the \":\" prefix",
			},
		},
		"required": []string{"table_name", "key_condition", "expr_attr_values"},
	}
}

func (t *DynamoDBQueryTool) Call(ctx context.Context, params map[string]any) (string, error) {
	tableName := stringParam(params, "table_name")
	if tableName == "" {
		return "", fmt.Errorf("table_name parameter required")
	}
	keyCondition := stringParam(params, "key_condition")
	if keyCondition == "" {
		return "", fmt.Errorf("key_condition parameter required")
	}
	values := mapParam(params, "expr_attr_values")
	if values == nil {
		return "", fmt.Errorf("expr_attr_values parameter required")
	}

	items, err := t.DynamoDB.Query(ctx, tableName, keyCondition, values)
	if err != nil {
		return "", err
	}
	return formatJSON(items), nil
}
