package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"

	"call-analysis-go/internal/types"
)

// itemCreator is the subset of *azcosmos.ContainerClient the store uses.
type itemCreator interface {
	CreateItem(ctx context.Context, partitionKey azcosmos.PartitionKey, item []byte, o *azcosmos.ItemOptions) (azcosmos.ItemResponse, error)
}

// Cosmos writes records into an Azure Cosmos DB container whose partition
// key path is /yearMonth.
type Cosmos struct {
	container itemCreator
}

// NewCosmos connects with an account connection string. No request is made
// until the first Save.
func NewCosmos(connString, database, container string) (*Cosmos, error) {
	client, err := azcosmos.NewClientFromConnectionString(connString, nil)
	if err != nil {
		return nil, fmt.Errorf("cosmos: new client: %w", err)
	}
	cc, err := client.NewContainer(database, container)
	if err != nil {
		return nil, fmt.Errorf("cosmos: container %s/%s: %w", database, container, err)
	}
	return &Cosmos{container: cc}, nil
}

func (c *Cosmos) Save(ctx context.Context, rec types.AnalysisRecord) error {
	body, err := json.Marshal(rec.Document())
	if err != nil {
		return fmt.Errorf("cosmos: encode record: %w", err)
	}
	pk := azcosmos.NewPartitionKeyString(rec.PartitionKey)
	if _, err := c.container.CreateItem(ctx, pk, body, nil); err != nil {
		return fmt.Errorf("cosmos: create item %s: %w", rec.RecordID, err)
	}
	return nil
}

func (c *Cosmos) Close(context.Context) error { return nil }
