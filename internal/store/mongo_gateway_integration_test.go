package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// setupTestGateway starts a MongoDB test container and returns a gateway
// over a scratch database
func setupTestGateway(t *testing.T) (*MongoGateway, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor: wait.ForLog("Waiting for connections").
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("Failed to start container (is Docker running?): %v", err)
	}

	endpoint, err := container.PortEndpoint(ctx, "27017/tcp", "")
	if err != nil {
		t.Fatalf("Failed to get container endpoint: %v", err)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI("mongodb://"+endpoint))
	if err != nil {
		t.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	gateway := NewMongoGateway(client.Database("test_sensores"))

	cleanup := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return gateway, cleanup
}

func TestMongoGateway_CreateAndReadOne(t *testing.T) {
	gateway, cleanup := setupTestGateway(t)
	defer cleanup()
	ctx := context.Background()

	id, err := gateway.Create(ctx, "devices", Fields{
		"deviceId": "esp32-01",
		"name":     "Sensor salón",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rec, err := gateway.ReadOne(ctx, "devices", id)
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, id, rec.ID)
	name, ok := rec.String("name")
	require.True(t, ok)
	assert.Equal(t, "Sensor salón", name)
	assert.Greater(t, rec.CreatedAt, int64(0))
	assert.Equal(t, rec.CreatedAt, rec.UpdatedAt)
}

func TestMongoGateway_ReadOne_Missing(t *testing.T) {
	gateway, cleanup := setupTestGateway(t)
	defer cleanup()

	rec, err := gateway.ReadOne(context.Background(), "devices", "65b2f9f6a1b2c3d4e5f60718")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestMongoGateway_ReadMany_Constraints(t *testing.T) {
	gateway, cleanup := setupTestGateway(t)
	defer cleanup()
	ctx := context.Background()

	for i, ts := range []int64{3000, 1000, 2000, 4000} {
		_, err := gateway.Create(ctx, "readings", Fields{
			"deviceId": "esp32-01",
			"ts":       ts,
			"seq":      i,
		})
		require.NoError(t, err)
	}
	_, err := gateway.Create(ctx, "readings", Fields{"deviceId": "esp32-02", "ts": int64(5000)})
	require.NoError(t, err)

	records, err := gateway.ReadMany(ctx, "readings", []Constraint{
		Where("deviceId", OpEqual, "esp32-01"),
		Where("ts", OpGreaterEqual, int64(2000)),
		OrderBy("ts", Ascending),
		Limit(2),
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	first, _ := records[0].Float("ts")
	second, _ := records[1].Float("ts")
	assert.Equal(t, float64(2000), first)
	assert.Equal(t, float64(3000), second)
}

func TestMongoGateway_UpdateAndDelete(t *testing.T) {
	gateway, cleanup := setupTestGateway(t)
	defer cleanup()
	ctx := context.Background()

	id, err := gateway.Create(ctx, "devices", Fields{"deviceId": "esp32-01", "name": "before"})
	require.NoError(t, err)

	require.NoError(t, gateway.Update(ctx, "devices", id, Fields{"name": "after"}))

	rec, err := gateway.ReadOne(ctx, "devices", id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	name, _ := rec.String("name")
	assert.Equal(t, "after", name)
	assert.GreaterOrEqual(t, rec.UpdatedAt, rec.CreatedAt)

	require.NoError(t, gateway.Delete(ctx, "devices", id))

	rec, err = gateway.ReadOne(ctx, "devices", id)
	require.NoError(t, err)
	assert.Nil(t, rec)

	// Deleting again stays silent.
	assert.NoError(t, gateway.Delete(ctx, "devices", id))
}

func TestMongoGateway_UpdateMissingIsNoop(t *testing.T) {
	gateway, cleanup := setupTestGateway(t)
	defer cleanup()

	err := gateway.Update(context.Background(), "devices", "65b2f9f6a1b2c3d4e5f60718", Fields{"name": "x"})
	assert.NoError(t, err)
}

func TestMongoGateway_WatchCollection_DeliversOnMutation(t *testing.T) {
	gateway, cleanup := setupTestGateway(t)
	defer cleanup()
	ctx := context.Background()

	results := make(chan []Record, 4)
	unsubscribe := gateway.WatchCollection(ctx, "readings", []Constraint{
		Where("deviceId", OpEqual, "esp32-01"),
	}, func(records []Record) {
		results <- records
	})
	defer unsubscribe()

	// Initial emission carries the current (empty) result set.
	select {
	case records := <-results:
		assert.Empty(t, records)
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for initial emission")
	}

	_, err := gateway.Create(ctx, "readings", Fields{"deviceId": "esp32-01", "ts": int64(1000)})
	require.NoError(t, err)

	select {
	case records := <-results:
		require.Len(t, records, 1)
		deviceID, _ := records[0].String("deviceId")
		assert.Equal(t, "esp32-01", deviceID)
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for change emission")
	}
}
