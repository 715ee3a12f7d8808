package main

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestRenderVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	info := collectVersionInfo()
	info.GitCommit = ""
	if err := renderVersionJSON(&buf, info, versionOptions{showHash: true}); err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "mojwgsl" || payload.GitCommit != "unknown" || payload.BuildDate != "" {
		t.Fatalf("payload = %+v", payload)
	}
}
