// Package client is the single point through which UI code and the
// flashgate CLI talk to the flashcard edge proxy.
//
// # Request Shape
//
// Every request carries:
//
//   - the session's bearer token, when the configured auth.TokenSource
//     yields one
//   - Cache-Control, Pragma and Expires headers that defeat caching
//   - any cookies held by the client's jar
//
// GetFlashcardSets also adds a fresh "t" timestamp query parameter to each
// attempt.
//
// # Operation Shapes
//
// Retry-wrapped reads and generators (GetFlashcardSets,
// GetSuggestedFlashcards, GenerateFlashcards, GenerateSuggestedFlashcards)
// return a retry.Result and never an error. They honor ctx: cancelling it
// aborts the attempt in flight and stops further attempts. Per-call options
// override the client's policy:
//
//	res := c.GetFlashcardSets(ctx, retry.Attempts(5), retry.Delay(time.Second))
//	if !res.OK {
//	    fmt.Println(res.Error, "after", res.Attempts, "attempts")
//	}
//
// Direct operations return (T, error). Failures are *APIError values
// carrying the backend status and message. Writes run to completion once
// issued and ignore cancellation of ctx:
//
//	card, err := c.UpdateFlashcard(ctx, flashcards.CardUpdate{
//	    ID:    "c1",
//	    Front: flashcards.String("Mitosis"),
//	})
//	var apiErr *client.APIError
//	if errors.As(err, &apiErr) {
//	    log.Println(apiErr.Detail())
//	}
//
// # Basic Usage
//
//	c, err := client.New("http://127.0.0.1:8080",
//	    client.WithTokenSource(auth.Env("FLASHGATE_TOKEN")),
//	    client.WithRetryPolicy(retry.DefaultPolicy().With(retry.Attempts(3))),
//	)
//	if err != nil {
//	    return err
//	}
//	sets := c.GetFlashcardSets(ctx)
//
// # Error Handling
//
// APIError.Error returns only the message, which is what UI code shows
// inline. The message is the response's "error" field when it is a
// non-empty string, and the operation's fallback otherwise. Detail adds the
// status and cause for logs. Causes include ErrInvalidID for set ids that
// cannot form a path segment and ErrResponseTooLarge for bodies over
// 10 MiB.
//
// # Thread Safety
//
// A Client is safe for concurrent use by multiple goroutines.
package client
