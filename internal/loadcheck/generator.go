package loadcheck

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/okian/bfhl/internal/domain/numeric"
	"github.com/okian/bfhl/pkg/logger"
)

// Ranges for generated operands. Fibonacci stays well past 2^53 to cover
// results that only survive as arbitrary-precision integers.
const (
	maxFibonacciN   = 120
	primeListLen    = 8
	maxPrimeValue   = 500
	minFoldLen      = 2
	maxFoldLen      = 5
	maxFoldOperand  = 720
	nonIntegerValue = 7.5
)

// Constants for case kind selection.
const (
	caseFibonacci = iota
	casePrime
	caseLCM
	caseHCF
	caseKeyCount
	caseInvalid
	caseAI

	numCaseKinds   = caseAI
	numCaseKindsAI = caseAI + 1
)

// Kinds that are not operation keys.
const (
	kindKeyCount = "key_count"
	kindInvalid  = "invalid"
	kindAI       = "AI"
)

var invalidBodies = []map[string]any{
	{"fibonacci": "5"},
	{"fibonacci": 0},
	{"fibonacci": 2.5},
	{"fibonacci": 1001},
	{"lcm": []any{}},
	{"hcf": []any{4, "6"}},
	{"unknown": 1},
	{"ai": "lowercase key"},
	{"AI": ""},
}

var keyCountBodies = []map[string]any{
	{},
	{"fibonacci": 3, "hcf": []any{2, 4}},
	{"lcm": []any{1}, "hcf": []any{1}, "prime": []any{2}},
}

var prompts = []string{
	"What is the capital of Japan? Answer in one word.",
	"Which planet is known as the red planet? One word.",
	"What is six times seven? Reply with the number only.",
}

// randInt returns a uniform value in [0, n) using crypto/rand.
func randInt(n int64) int64 {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return 0
	}
	return v.Int64()
}

// generateCases creates config.NumRequests cases across all operation kinds.
func generateCases(ctx context.Context, config *Config, stats *Stats) ([]Case, error) {
	logger.Get().Info(ctx, "generating cases", logger.Int("numRequests", config.NumRequests))

	type caseResult struct {
		index int
		c     Case
		err   error
	}

	cases := make([]Case, config.NumRequests)
	resultChan := make(chan caseResult, config.NumRequests)

	workerCount := max(1, min(config.Workers, config.NumRequests))
	perWorker := config.NumRequests / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * perWorker
		end := start + perWorker
		if worker == workerCount-1 {
			end = config.NumRequests
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					resultChan <- caseResult{index: i, err: err}
					return
				}
				c, err := generateSingleCase(config.IncludeAI)
				resultChan <- caseResult{index: i, c: c, err: err}
			}
		}(start, end)
	}

	for i := 0; i < config.NumRequests; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during case generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate case %d: %w", result.index, result.err)
			}
			cases[result.index] = result.c
		}
	}

	stats.CasesGenerated = len(cases)
	logger.Get().Info(ctx, "generated cases successfully", logger.Int("count", len(cases)))
	return cases, nil
}

// generateSingleCase picks a kind at random and builds its request and expectation.
func generateSingleCase(includeAI bool) (Case, error) {
	kinds := int64(numCaseKinds)
	if includeAI {
		kinds = numCaseKindsAI
	}

	c := Case{ID: uuid.NewString(), WantStatus: StatusOK}
	var (
		want any
		err  error
	)
	switch randInt(kinds) {
	case caseFibonacci:
		n := int(randInt(maxFibonacciN)) + 1
		c.Kind, c.Body = "fibonacci", map[string]any{"fibonacci": n}
		want, err = numeric.Fibonacci(n)
	case casePrime:
		values := make([]float64, 0, primeListLen+1)
		body := make([]any, 0, primeListLen+2)
		for i := 0; i < primeListLen; i++ {
			v := float64(randInt(maxPrimeValue))
			values = append(values, v)
			body = append(body, v)
		}
		values = append(values, nonIntegerValue)
		body = append(body, nonIntegerValue, "not-a-number")
		c.Kind, c.Body = "prime", map[string]any{"prime": body}
		want = numeric.FilterPrimes(values)
	case caseLCM:
		operands, body := foldOperands()
		c.Kind, c.Body = "lcm", map[string]any{"lcm": body}
		want, err = numeric.LCM(operands)
	case caseHCF:
		operands, body := foldOperands()
		c.Kind, c.Body = "hcf", map[string]any{"hcf": body}
		want, err = numeric.HCF(operands)
	case caseKeyCount:
		c.Kind, c.Body = kindKeyCount, keyCountBodies[randInt(int64(len(keyCountBodies)))]
		c.WantStatus, c.WantError = StatusBadRequest, msgOperationCount
		return c, nil
	case caseInvalid:
		c.Kind, c.Body = kindInvalid, invalidBodies[randInt(int64(len(invalidBodies)))]
		c.WantStatus, c.WantError = StatusBadRequest, msgInvalidRequest
		return c, nil
	case caseAI:
		c.Kind, c.Body = kindAI, map[string]any{"AI": prompts[randInt(int64(len(prompts)))]}
		return c, nil
	}
	if err != nil {
		return Case{}, err
	}

	data, err := json.Marshal(want)
	if err != nil {
		return Case{}, fmt.Errorf("failed to marshal expectation: %w", err)
	}
	c.WantData = string(data)
	return c, nil
}

// foldOperands returns positive operands for lcm/hcf both as integers and as a JSON body.
func foldOperands() ([]*big.Int, []any) {
	n := int(randInt(maxFoldLen-minFoldLen+1)) + minFoldLen
	operands := make([]*big.Int, n)
	body := make([]any, n)
	for i := range operands {
		v := randInt(maxFoldOperand) + 1
		operands[i] = big.NewInt(v)
		body[i] = v
	}
	return operands, body
}
