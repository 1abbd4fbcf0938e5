package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL        = "http://127.0.0.1:18090"
	numWorkers     = 50
	testDuration   = 10 * time.Second
	numDiagnostics = 500
	numSymptomSets = 20
)

var symptomSets = [][]string{
	{"rough idle"},
	{"rough idle", "check engine light"},
	{"stalling"},
	{"hesitation", "poor acceleration"},
	{"overheating"},
	{"white smoke"},
	{"grinding noise"},
	{"no start"},
	{"hard start", "rough idle"},
	{"misfire"},
	{"vibration at speed"},
	{"squealing brakes"},
	{"oil leak"},
	{"coolant leak"},
	{"battery drain"},
	{"rattling noise"},
	{"loss of power"},
	{"smell of fuel"},
	{"transmission slipping"},
	{"steering pull"},
}

var dtcSets = [][]string{
	{"P0301"},
	{"P0171"},
	{"P0301", "P0171"},
	{"P0420"},
	{"P0442"},
	{},
	{"P0128"},
	{"P0455"},
	{"P0300"},
	{"P0506"},
}

var labors = []string{
	"Replace O2 sensor",
	"Replace spark plugs",
	"Replace ignition coil",
	"Clean MAF sensor",
	"Replace thermostat",
	"Replace catalytic converter",
	"Replace gas cap",
	"",
}

var outcomes = []string{"fixed", "fixed", "fixed", "partial", "not_fixed"}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== Fixd Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Diagnostics: %d | Symptom sets: %d\n\n", numDiagnostics, numSymptomSets)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: Seed submissions
	fmt.Println("\n--- Phase 1: Seeding submissions (POST /submissions) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doPostSubmission(rng)
	})

	// Phase 2: Mixed read/write load
	fmt.Println("\n--- Phase 2: Mixed load (50% POST, 50% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.50:
			return doPostSubmission(rng)
		case r < 0.75:
			return doGetStats(rng)
		case r < 0.85:
			return doGetFollowUps()
		case r < 0.95:
			return doGetMyRepairs()
		default:
			return doGetAllowance()
		}
	})

	// Phase 3: Read-heavy load, exercises the stats cache
	fmt.Println("\n--- Phase 3: Read-heavy load (10% POST, 90% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doPostSubmission(rng)
		case r < 0.70:
			return doGetStats(rng)
		case r < 0.80:
			return doGetFollowUps()
		case r < 0.90:
			return doGetMyRepairs()
		default:
			return doGetAllowance()
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-24s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 90))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-24s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 90))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doPostSubmission(rng *rand.Rand) result {
	set := rng.Intn(len(symptomSets))
	body := map[string]interface{}{
		"diagnosticId": fmt.Sprintf("diag_%d", rng.Intn(numDiagnostics)+1),
		"diagnosticData": map[string]interface{}{
			"symptoms": symptomSets[set],
			"dtcCodes": dtcSets[rng.Intn(len(dtcSets))],
		},
		"repair": map[string]interface{}{
			"type":             []string{"diy", "shop"}[rng.Intn(2)],
			"laborDescription": labors[rng.Intn(len(labors))],
			"totalCost":        float64(rng.Intn(2000)),
			"timeSpent":        float64(rng.Intn(10)) + 0.5,
		},
		"outcome":    outcomes[rng.Intn(len(outcomes))],
		"confidence": rng.Intn(5) + 1,
	}

	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/submissions", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /submissions", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /submissions", resp.StatusCode, lat, resp.StatusCode != 201}
}

func doGetStats(rng *rand.Rand) result {
	set := symptomSets[rng.Intn(len(symptomSets))]
	url := baseURL + "/stats?"
	for i, s := range set {
		if i > 0 {
			url += "&"
		}
		url += "symptom=" + urlEncode(s)
	}
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /stats", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /stats", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetFollowUps() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/followups")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /followups", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /followups", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetMyRepairs() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/submissions/mine")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /submissions/mine", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /submissions/mine", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetAllowance() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/scan/allowance")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /scan/allowance", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /scan/allowance", resp.StatusCode, lat, resp.StatusCode != 200}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func urlEncode(s string) string {
	out := ""
	for _, r := range s {
		if r == ' ' {
			out += "+"
		} else {
			out += string(r)
		}
	}
	return out
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
