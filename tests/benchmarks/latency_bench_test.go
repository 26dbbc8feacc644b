package benchmarks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"dnclient/pkg/dnapi"
	"dnclient/pkg/logging"
)

func newBenchClient(b *testing.B) (*dnapi.Client, func()) {
	b.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))

	logger, _ := logging.NewZapLogger("WARN")
	client, err := dnapi.New("pub", "sec",
		dnapi.WithBaseHost(srv.URL),
		dnapi.WithLogger(logger))
	if err != nil {
		srv.Close()
		b.Fatalf("Failed to create client: %v", err)
	}
	return client, srv.Close
}

func BenchmarkGet_Latency(b *testing.B) {
	client, cleanup := newBenchClient(b)
	defer cleanup()

	ctx := context.Background()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := client.Get(ctx, "/status")
		if err != nil {
			b.Errorf("Request failed: %v", err)
		}
	}
}

func BenchmarkGet_Throughput(b *testing.B) {
	client, cleanup := newBenchClient(b)
	defer cleanup()

	ctx := context.Background()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = client.Get(ctx, "/status")
		}
	})
}

func BenchmarkPost_Form(b *testing.B) {
	client, cleanup := newBenchClient(b)
	defer cleanup()

	ctx := context.Background()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := client.Post(ctx, "/events", dnapi.WithForm(
			dnapi.Param{Key: "name", Value: "probe"},
			dnapi.Param{Key: "value", Value: "1"},
		))
		if err != nil {
			b.Errorf("Request failed: %v", err)
		}
	}
}
