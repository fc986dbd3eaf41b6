package database

import (
	"context"
	"fmt"
	"time"

	"marketplace-properties/pkg/config"
	"marketplace-properties/pkg/logger"
	"marketplace-properties/pkg/metrics"

	"github.com/supabase-community/supabase-go"
)

// Supabase wraps a service-role client for the hosted Postgres project.
type Supabase struct {
	Client *supabase.Client
}

func NewSupabase(cfg config.SupabaseConfig) (*Supabase, error) {
	client, err := supabase.NewClient(cfg.URL, cfg.ServiceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}
	logger.GlobalLogger.Println("Supabase client initialized")
	return &Supabase{Client: client}, nil
}

func (s *Supabase) Name() string { return "supabase" }

// Ping issues a head-only count on the properties table. The PostgREST client has
// no context support, so ctx is only checked before the call.
func (s *Supabase) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	_, _, err := s.Client.From(PropertiesCollection).Select("id", "exact", true).Limit(1, "").Execute()
	metrics.DatastoreOperationDuration.WithLabelValues("ping", PropertiesCollection).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DatastoreErrorsTotal.WithLabelValues("ping", PropertiesCollection).Inc()
	}
	return err
}
