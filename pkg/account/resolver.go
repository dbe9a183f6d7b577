package account

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/metrics"
)

// keyAttribute is the partition key attribute of the mapping table. The
// table predates this service and keys account IDs under "uuid".
const keyAttribute = "uuid"

// Record is the contact information for one account. Name and Email are
// empty when the account has no mapping entry.
type Record struct {
	AccountID string
	Name      string
	Email     string
}

// Resolver maps an account identifier to its contact record.
type Resolver interface {
	Resolve(ctx context.Context, accountID string) (Record, error)
}

// DynamoDBAPI is the subset of the DynamoDB client used by the resolver.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// DynamoDBResolver resolves accounts against the mapping table.
type DynamoDBResolver struct {
	client DynamoDBAPI
	table  string
	log    *zap.SugaredLogger
}

func NewDynamoDBResolver(client DynamoDBAPI, table string, log *zap.SugaredLogger) *DynamoDBResolver {
	return &DynamoDBResolver{
		client: client,
		table:  table,
		log:    log.Named("account-resolver"),
	}
}

// mappingItem mirrors the attribute names stored in the table.
type mappingItem struct {
	Name  string `dynamodbav:"accountname"`
	Email string `dynamodbav:"accountemail"`
}

// Resolve performs a single GetItem against the mapping table. A missing
// entry is logged and returns a Record with empty contact fields; only a
// failing client call is an error.
func (r *DynamoDBResolver) Resolve(ctx context.Context, accountID string) (Record, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			keyAttribute: &types.AttributeValueMemberS{Value: accountID},
		},
	})
	if err != nil {
		metrics.AccountLookupErrors.Inc()
		return Record{}, fmt.Errorf("querying account mapping table %s: %w", r.table, err)
	}

	record := Record{AccountID: accountID}

	if out.Item == nil {
		r.log.Warnw("account not found in mapping table",
			"accountID", accountID, "table", r.table)
		metrics.AccountLookupMisses.Inc()
		return record, nil
	}

	var item mappingItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		metrics.AccountLookupErrors.Inc()
		return Record{}, fmt.Errorf("decoding mapping entry for account %s: %w", accountID, err)
	}

	record.Name = item.Name
	record.Email = item.Email
	r.log.Infow("account email found in mapping table",
		"accountID", accountID, "email", record.Email)
	return record, nil
}
