// Command churn-check posts a sample customer to a deployed churn service
// and prints the response.
//
//	CHURN_URL=http://churn.example.com/predict churn-check
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kailas-cloud/churn/internal/version"
	"github.com/kailas-cloud/churn/pkg/client"
)

// sampleCustomer is a known one-year-contract customer used as a smoke test.
var sampleCustomer = map[string]any{
	"customerid":       "8879-zkjof",
	"gender":           "female",
	"seniorcitizen":    0,
	"partner":          "no",
	"dependents":       "no",
	"tenure":           41,
	"phoneservice":     "yes",
	"multiplelines":    "no",
	"internetservice":  "dsl",
	"onlinesecurity":   "yes",
	"onlinebackup":     "no",
	"deviceprotection": "yes",
	"techsupport":      "yes",
	"streamingtv":      "yes",
	"streamingmovies":  "yes",
	"contract":         "one_year",
	"paperlessbilling": "yes",
	"paymentmethod":    "bank_transfer_(automatic)",
	"monthlycharges":   79.85,
	"totalcharges":     3320.75,
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	url := env("CHURN_URL", "http://localhost:9696/predict")
	if len(os.Args) > 1 {
		url = os.Args[1]
	}

	c, err := client.New(url,
		client.WithTimeout(15*time.Second),
		client.WithUserAgent(version.UserAgent("check")),
	)
	if err != nil {
		return err
	}

	fmt.Printf("Testing ML Model at: %s\n", c.Endpoint())

	p, err := c.Predict(context.Background(), sampleCustomer)
	if err != nil {
		var se *client.StatusError
		if errors.As(err, &se) {
			fmt.Printf("Status Code: %d\n", se.StatusCode)
			fmt.Printf("Result: %s\n", se.Body)
		}
		return err
	}

	fmt.Println("Status Code: 200")
	fmt.Printf("Result: {churn_probability: %v, churn: %v} (request %s)\n",
		p.ChurnProbability, p.Churn, p.RequestID)
	return nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
