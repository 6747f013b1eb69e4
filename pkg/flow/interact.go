package flow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	grpcapi "github.com/rchudinov/chainserve/api/grpc"
	"github.com/rchudinov/chainserve/pkg/serving"
)

var interactClient = &http.Client{Timeout: 60 * time.Second}

// Interact posts named inputs to a host's run endpoint and picks the text
// result. A bare string input is wrapped under the default input key. The
// result is looked up under outputKey, then under the default result key;
// if neither is present the whole result mapping is returned.
func Interact(ctx context.Context, hostURL string, inputs any, outputKey string) (any, error) {
	body, err := buildInputs(inputs)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	endpoint := strings.TrimSuffix(hostURL, "/") + "/run"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := interactClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("interact: host returned %d", resp.StatusCode)
	}

	var out serving.Output
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, errors.New(out.Error)
	}
	return pickResult(out.Result, outputKey), nil
}

// InteractGRPC is Interact over the gRPC host.
func InteractGRPC(ctx context.Context, target string, inputs any, outputKey string) (any, error) {
	body, err := buildInputs(inputs)
	if err != nil {
		return nil, err
	}
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	result, err := grpcapi.Run(ctx, conn, body)
	if err != nil {
		return nil, err
	}
	return pickResult(result, outputKey), nil
}

func buildInputs(inputs any) (map[string]any, error) {
	switch v := inputs.(type) {
	case string:
		return map[string]any{serving.DefaultKey: v}, nil
	case map[string]any:
		return v, nil
	default:
		return nil, fmt.Errorf("interact: inputs must be a string or a map, got %T", inputs)
	}
}

func pickResult(result any, outputKey string) any {
	if outputKey == "" {
		outputKey = serving.DefaultKey
	}
	m, ok := result.(map[string]any)
	if !ok {
		return result
	}
	if v, ok := m[outputKey]; ok {
		return v
	}
	if v, ok := m[serving.ResultKey]; ok {
		return v
	}
	return m
}
