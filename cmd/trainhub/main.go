// @title TrainHub Entitlement API
// @version 1.0
// @description Subscription lifecycle and training access decisions for personal and organizational accounts.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pratik-mahalle/trainhub/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
