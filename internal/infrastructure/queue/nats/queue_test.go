package nats

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDecodeJobReadsStructuredPayload(t *testing.T) {
	payload, err := json.Marshal(job{AnalysisID: "an-1", EnqueuedAt: time.Now().UTC().Add(-2 * time.Second)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var observed time.Duration
	id := decodeJob(payload, func(d time.Duration) { observed = d })
	if id != "an-1" {
		t.Fatalf("analysis id = %q, want an-1", id)
	}
	if observed < 2*time.Second {
		t.Fatalf("queue lag = %v, want >= 2s", observed)
	}
}

func TestDecodeJobToleratesBareID(t *testing.T) {
	if id := decodeJob([]byte("an-legacy"), nil); id != "an-legacy" {
		t.Fatalf("analysis id = %q, want an-legacy", id)
	}
}

func TestDecodeJobRejectsEmptyID(t *testing.T) {
	if id := decodeJob([]byte(`{"analysis_id":""}`), nil); id != "" {
		t.Fatalf("analysis id = %q, want empty", id)
	}
}
