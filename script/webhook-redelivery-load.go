package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/api/dto"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/auth"
)

// TestResult contains metrics for a single webhook delivery
type TestResult struct {
	Success      bool
	ResponseTime time.Duration
	StatusCode   int
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalRequests      int
	SuccessfulRequests int
	FailedRequests     int
	TotalTime          time.Duration
	ResponseTimes      []time.Duration
	ErrorCounts        map[string]int
	Lock               sync.Mutex
}

// delivery is one webhook send; the same order is delivered several times
type delivery struct {
	orderID    int
	customerID int
}

func main() {
	concurrency := flag.Int("c", 8, "Number of concurrent goroutines")
	orders := flag.Int("orders", 20, "Number of distinct paid orders")
	redeliveries := flag.Int("r", 5, "Deliveries per order")
	customerID := flag.Int("customer", 424242, "Customer id that receives the credits")
	variantID := flag.String("variant", "111", "Credit pack variant id")
	packCredits := flag.Int64("credits", 10, "Credits granted by the pack variant")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	secret := flag.String("secret", "", "Shopify webhook secret, empty skips signing")
	delayMs := flag.Int("delay", 0, "Delay between requests in milliseconds")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	before, err := fetchCredits(client, *baseURL, *customerID)
	if err != nil {
		fmt.Printf("Could not read starting balance: %v\n", err)
		return
	}

	jobs := make([]delivery, 0, *orders**redeliveries)
	runID := time.Now().Unix()
	for o := 0; o < *orders; o++ {
		for r := 0; r < *redeliveries; r++ {
			jobs = append(jobs, delivery{orderID: int(runID%100000)*1000 + o, customerID: *customerID})
		}
	}
	rand.Shuffle(len(jobs), func(i, j int) { jobs[i], jobs[j] = jobs[j], jobs[i] })

	fmt.Printf("Delivering %d orders x %d times with %d workers\n", *orders, *redeliveries, *concurrency)

	stats := &TestStats{
		TotalRequests: len(jobs),
		ErrorCounts:   make(map[string]int),
		ResponseTimes: make([]time.Duration, 0, len(jobs)),
	}

	queue := make(chan delivery, len(jobs))
	for _, job := range jobs {
		queue <- job
	}
	close(queue)

	startTime := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				if *delayMs > 0 {
					time.Sleep(time.Duration(*delayMs) * time.Millisecond)
				}
				record(stats, deliver(client, *baseURL, *secret, *variantID, job))
			}
		}()
	}
	wg.Wait()
	stats.TotalTime = time.Since(startTime)

	after, err := fetchCredits(client, *baseURL, *customerID)
	if err != nil {
		fmt.Printf("Could not read final balance: %v\n", err)
		return
	}

	printResults(stats)

	expected := before + int64(*orders)**packCredits
	fmt.Println("\n================= LEDGER CHECK =================")
	fmt.Printf("Balance before:      %d\n", before)
	fmt.Printf("Balance after:       %d\n", after)
	fmt.Printf("Expected:            %d\n", expected)
	if after == expected {
		fmt.Println("✅ Every order was credited exactly once")
	} else {
		fmt.Printf("❌ Ledger drift of %d credits\n", after-expected)
	}
}

func deliver(client *http.Client, baseURL, secret, variantID string, job delivery) TestResult {
	order := map[string]any{
		"id":               job.orderID,
		"name":             "#" + strconv.Itoa(job.orderID),
		"financial_status": "paid",
		"customer":         map[string]any{"id": job.customerID},
		"line_items": []map[string]any{
			{"variant_id": variantID, "quantity": 1, "title": "Credit pack"},
		},
	}
	body, err := json.Marshal(order)
	if err != nil {
		return TestResult{Error: err}
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/webhooks/shopify/credits", bytes.NewReader(body))
	if err != nil {
		return TestResult{Error: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(auth.ShopifyHMACHeader, auth.SignShopifyWebhook(secret, body))
	}

	start := time.Now()
	resp, err := client.Do(req)
	result := TestResult{ResponseTime: time.Since(start)}
	if err != nil {
		result.Error = err
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
	if !result.Success {
		result.Error = fmt.Errorf("HTTP status code %d", resp.StatusCode)
	}
	return result
}

func fetchCredits(client *http.Client, baseURL string, customerID int) (int64, error) {
	resp, err := client.Get(fmt.Sprintf("%s/api/credits?customerId=%d", baseURL, customerID))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HTTP status code %d", resp.StatusCode)
	}
	var credits dto.CreditsResponse
	if err := json.NewDecoder(resp.Body).Decode(&credits); err != nil {
		return 0, err
	}
	return credits.Credits, nil
}

func record(stats *TestStats, result TestResult) {
	stats.Lock.Lock()
	defer stats.Lock.Unlock()

	if result.Success {
		stats.SuccessfulRequests++
	} else {
		stats.FailedRequests++
		errMsg := "unknown"
		if result.Error != nil {
			errMsg = result.Error.Error()
		}
		stats.ErrorCounts[errMsg]++
	}
	stats.ResponseTimes = append(stats.ResponseTimes, result.ResponseTime)
}

func printResults(stats *TestStats) {
	sorted := make([]time.Duration, len(stats.ResponseTimes))
	copy(sorted, stats.ResponseTimes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var p50, p95, p99 time.Duration
	if len(sorted) > 0 {
		p50 = sorted[len(sorted)*50/100]
		p95 = sorted[len(sorted)*95/100]
		p99 = sorted[len(sorted)*99/100]
	}

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Deliveries:    %d\n", stats.TotalRequests)
	fmt.Printf("Acknowledged:        %d\n", stats.SuccessfulRequests)
	fmt.Printf("Failed:              %d\n", stats.FailedRequests)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())
	fmt.Printf("Throughput:          %.2f deliveries/s\n", float64(stats.TotalRequests)/stats.TotalTime.Seconds())
	fmt.Printf("P50 Response:        %v\n", p50)
	fmt.Printf("P95 Response:        %v\n", p95)
	fmt.Printf("P99 Response:        %v\n", p99)

	if stats.FailedRequests > 0 {
		fmt.Println("\n----------------- ERROR DISTRIBUTION -----------------")
		for errMsg, count := range stats.ErrorCounts {
			fmt.Printf("%-40s: %d\n", errMsg, count)
		}
	}
}
