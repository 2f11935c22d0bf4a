package analyses_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"legalsim-backend/internal/analyses"
	"legalsim-backend/internal/documents"
	"legalsim-backend/internal/llm"
	"legalsim-backend/internal/queue"
	"legalsim-backend/internal/shared/config"
	"legalsim-backend/internal/shared/storage/cache"
	"legalsim-backend/internal/shared/storage/db"
)

type cannedLLM struct {
	body string
}

func (c cannedLLM) AnalyzeDocument(context.Context, llm.AnalyzeInput) (json.RawMessage, error) {
	return json.RawMessage(c.body), nil
}

func TestPipelineAgainstPostgresAndRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcPostgres.WithDatabase("legalsim"),
		tcPostgres.WithUsername("legalsim"),
		tcPostgres.WithPassword("legalsim"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	redisC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
		testcontainers.WithWaitStrategy(wait.ForListeningPort("6379/tcp")),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	database, err := db.Connect(ctx, dsn, db.DefaultOptions(db.RoleMigrate))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.RunMigrations(ctx, database))

	redisURL, err := redisC.ConnectionString(ctx)
	require.NoError(t, err)
	rdb, err := cache.Connect(ctx, redisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	docs := &documents.Service{Repo: &documents.PGRepo{DB: database}}
	svc := &analyses.Service{
		Documents: docs,
		Repo:      &analyses.PGRepo{DB: database},
		LLM: cannedLLM{body: `{
			"simplified_content": "You pay rent monthly.",
			"summary": "Lease.",
			"key_points": ["Rent is $1000"],
			"critical_clauses": ["Late fee applies"],
			"beneficial_clauses": [],
			"complexity_score": "40",
			"risk_score": 55.6
		}`},
		Cache:         analyses.NewRedisCache(rdb, time.Hour),
		Events:        queue.NopClient{},
		FailurePolicy: config.FailurePolicyKeep,
	}

	out, err := svc.Process(ctx, documents.NewDocument{Content: "Tenant shall pay rent of $1000 monthly.", FileSize: -1})
	require.NoError(t, err)
	assert.Equal(t, documents.StatusCompleted, out.Document.AnalysisStatus)
	assert.Equal(t, 40, out.Analysis.ComplexityScore)
	assert.Equal(t, 56, out.Analysis.RiskScore)

	stored, err := docs.Get(ctx, out.Document.ID)
	require.NoError(t, err)
	assert.Equal(t, documents.StatusCompleted, stored.AnalysisStatus)
	assert.Equal(t, documents.DefaultTitle, stored.Title)
	assert.Equal(t, int64(len("Tenant shall pay rent of $1000 monthly.")), stored.FileSize)

	gotDoc, gotAnalysis, err := svc.Retrieve(ctx, out.Document.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Document.ID, gotDoc.ID)
	require.NotNil(t, gotAnalysis)
	assert.Equal(t, []string{"Late fee applies"}, gotAnalysis.CriticalClauses)
	assert.Equal(t, []string{}, gotAnalysis.BeneficialClauses)

	snap, hit, err := analyses.NewRedisCache(rdb, time.Hour).Get(ctx, out.Document.ID)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, out.Analysis.ID, snap.Analysis.ID)

	// A second analysis for the same document is stored, but retrieval keeps the first.
	repo := &analyses.PGRepo{DB: database}
	second := out.Analysis
	second.ID = "00000000-0000-0000-0000-000000000002"
	second.CreatedAt = out.Analysis.CreatedAt.Add(time.Minute)
	require.NoError(t, repo.CreateForDocument(ctx, second))
	first, err := repo.FirstForDocument(ctx, out.Document.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Analysis.ID, first.ID)
}
