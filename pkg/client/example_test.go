package client_test

import (
	"context"
	"fmt"
	"log"

	"github.com/pratik-mahalle/trainhub/pkg/client"
)

// Example checks whether a user may watch a training
func Example() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
		Token:   "<admin token>",
	})

	granted, err := c.CheckAccess(context.Background(), "alice", "go-101")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("alice may access go-101: %v\n", granted)
}

// ExampleSubscriptionService_Renew renews a lapsed subscription
func ExampleSubscriptionService_Renew() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
		Token:   "<admin token>",
	})

	sub, err := c.Subscriptions().Renew(context.Background(), "<subscription id>")
	if err != nil {
		if apiErr, ok := client.AsAPIError(err); ok && apiErr.IsConflict() {
			fmt.Println("subscription is still in force")
			return
		}
		log.Fatal(err)
	}

	fmt.Printf("renewal %s ends %s\n", sub.ID, sub.EndDate)
}
