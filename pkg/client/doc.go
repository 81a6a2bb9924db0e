// Package client calls a deployed churn prediction service.
//
//	c, _ := client.New("http://localhost:9696")
//	p, err := c.Predict(ctx, map[string]any{
//	    "contract": "one_year",
//	    "tenure":   41,
//	})
//	if err != nil { ... }
//	fmt.Println(p.ChurnProbability, p.Churn)
package client
