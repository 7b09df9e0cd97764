// Package client selects a chat provider from configuration and wraps it
// with automatic retries for transient errors.
//
// # Basic Usage
//
//	c, err := client.New(ctx, client.Config{
//	    Provider: learnpath.ProviderGoogle,
//	    APIKey:   os.Getenv("GOOGLE_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := c.Chat(ctx, []learnpath.Message{
//	    learnpath.NewUserMessage("Hello!"),
//	})
//
// # Retry Configuration
//
// The client retries transient errors (rate limits, timeouts, 5xx errors)
// with exponential backoff, honoring Retry-After when the provider sends one:
//
//	c, err := client.New(ctx, client.Config{
//	    Provider: learnpath.ProviderOpenAI,
//	    APIKey:   os.Getenv("OPENAI_API_KEY"),
//	    Retry: &client.RetryConfig{
//	        MaxAttempts:  3,
//	        InitialDelay: 500 * time.Millisecond,
//	        MaxDelay:     10 * time.Second,
//	        Multiplier:   2,
//	    },
//	})
//
// # Events
//
// Observe requests and retries via an event channel:
//
//	events := make(chan client.Event, 100)
//	c, _ := client.New(ctx, client.Config{APIKey: key, Events: events})
//
//	go func() {
//	    for e := range events {
//	        fmt.Printf("[%s] %s took %v\n", e.Type, e.Operation, e.Duration)
//	    }
//	}()
package client
