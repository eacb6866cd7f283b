// Command shadow_compare replays read-only requests against the Go API and the
// legacy deployment and reports response drift per endpoint.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

type target struct {
	Method string `json:"method"`
	// Path is requested on the Go API under its prefix.
	Path string `json:"path"`
	// LegacyPath defaults to Path.
	LegacyPath string `json:"legacy_path"`
	Role       string `json:"role"`
	Critical   bool   `json:"critical"`
}

type config struct {
	// Tokens maps a role to the bearer token used on both sides.
	Tokens  map[string]string `json:"tokens"`
	Ignore  []string          `json:"ignore"`
	Targets []target          `json:"targets"`
}

type comparison struct {
	Target         target
	LegacyStatus   int
	GoStatus       int
	StatusMatch    bool
	BodyMatch      bool
	Error          error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

func main() {
	var (
		goBase      string
		legacyBase  string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8080/api/v1", "Go API base URL including prefix")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:8000", "Legacy API base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "shadow_compare", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	cfg, err := loadConfig(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	ignore := make(map[string]struct{}, len(cfg.Ignore))
	for _, key := range cfg.Ignore {
		ignore[key] = struct{}{}
	}

	client := &http.Client{Timeout: timeout}
	var (
		comparisons  []comparison
		breaking     int
		optionalDiff int
	)
	for _, t := range cfg.Targets {
		comp := compareTarget(client, goBase, legacyBase, cfg.Tokens[t.Role], t, ignore)
		switch {
		case comp.Error != nil && t.Critical:
			breaking++
		case comp.Error == nil && (!comp.StatusMatch || !comp.BodyMatch):
			if t.Critical {
				breaking++
			} else {
				optionalDiff++
			}
		}
		comparisons = append(comparisons, comp)
	}

	printReport(comparisons)
	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optionalDiff)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return &cfg, nil
}

func compareTarget(client *http.Client, goBase, legacyBase, token string, tgt target, ignore map[string]struct{}) comparison {
	comp := comparison{Target: tgt}
	legacyPath := tgt.LegacyPath
	if legacyPath == "" {
		legacyPath = tgt.Path
	}

	goStatus, goBody, goDur, err := fetch(client, goBase, tgt.Method, tgt.Path, token)
	comp.DurationGo = goDur
	if err != nil {
		comp.Error = fmt.Errorf("go request failed: %w", err)
		return comp
	}
	legacyStatus, legacyBody, legacyDur, err := fetch(client, legacyBase, tgt.Method, legacyPath, token)
	comp.DurationLegacy = legacyDur
	if err != nil {
		comp.Error = fmt.Errorf("legacy request failed: %w", err)
		return comp
	}

	comp.GoStatus = goStatus
	comp.LegacyStatus = legacyStatus
	comp.StatusMatch = goStatus == legacyStatus
	comp.BodyMatch = bodiesEqual(unwrapEnvelope(goBody), legacyBody, ignore)
	return comp
}

func fetch(client *http.Client, base, method, path, token string) (int, []byte, time.Duration, error) {
	if client == nil {
		return 0, nil, 0, errors.New("nil client")
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return 0, nil, 0, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, time.Since(start), nil
}

// unwrapEnvelope strips the Go response envelope so the payload can be
// compared with the legacy body: data when present, otherwise {"detail": ...}.
func unwrapEnvelope(body []byte) []byte {
	var env struct {
		Data   json.RawMessage `json:"data"`
		Detail string          `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return body
	}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		return env.Data
	}
	if env.Detail != "" {
		out, _ := json.Marshal(map[string]string{"detail": env.Detail})
		return out
	}
	return body
}

func bodiesEqual(a, b []byte, ignore map[string]struct{}) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	return reflect.DeepEqual(normalize(aj, ignore), normalize(bj, ignore))
}

// normalize drops ignored keys and rounds numbers to two decimals, the
// precision every score and percentage is served with.
func normalize(v interface{}, ignore map[string]struct{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			if _, skip := ignore[k]; skip {
				continue
			}
			out[k] = normalize(item, ignore)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalize(item, ignore)
		}
		return out
	case float64:
		return math.Round(val*100) / 100
	default:
		return v
	}
}

func printReport(results []comparison) {
	fmt.Println("Shadow Compare Report")
	fmt.Println("======================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.BodyMatch {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s %s (%s)\n", status, res.Target.Method, res.Target.Path, res.Target.Role)
		fmt.Printf("  Go Status: %d (%s)\n", res.GoStatus, res.DurationGo)
		fmt.Printf("  Legacy Status: %d (%s)\n", res.LegacyStatus, res.DurationLegacy)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
		} else {
			fmt.Printf("  Status match: %t | Body match: %t | Critical: %t\n", res.StatusMatch, res.BodyMatch, res.Target.Critical)
		}
	}
}
