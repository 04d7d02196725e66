// FilePath: internal/database/database.go
package database

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/srcfl/ems-dashboard/internal/config"
	nuts "github.com/vaudience/go-nuts"
)

// DB is the connection handle the repositories operate on. The dashboard is
// read-only, so only the query API is exposed.
type DB interface {
	Close()
	Ping(ctx context.Context) error
	QueryAPI() api.QueryAPI
	Org() string
	Bucket() string
}

// InfluxDB wraps the InfluxDB v2 client connection
type InfluxDB struct {
	client   influxdb2.Client
	queryAPI api.QueryAPI
	org      string
	bucket   string
}

// NewInfluxDB creates a new InfluxDB connection handle and verifies the
// server is reachable.
func NewInfluxDB(ctx context.Context, cfg config.InfluxConfig) (DB, error) {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)

	ok, err := client.Ping(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("error connecting to InfluxDB: %w", err)
	}
	if !ok {
		client.Close()
		return nil, fmt.Errorf("InfluxDB at %s did not respond to ping", cfg.URL)
	}

	nuts.L.Infof("[InfluxDB] Connected to %s (org=%s, bucket=%s)", cfg.URL, cfg.Org, cfg.Bucket)
	return &InfluxDB{
		client:   client,
		queryAPI: client.QueryAPI(cfg.Org),
		org:      cfg.Org,
		bucket:   cfg.Bucket,
	}, nil
}

func (i *InfluxDB) Close() {
	i.client.Close()
}

func (i *InfluxDB) Ping(ctx context.Context) error {
	ok, err := i.client.Ping(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("InfluxDB ping failed")
	}
	return nil
}

func (i *InfluxDB) QueryAPI() api.QueryAPI {
	return i.queryAPI
}

func (i *InfluxDB) Org() string {
	return i.org
}

func (i *InfluxDB) Bucket() string {
	return i.bucket
}
