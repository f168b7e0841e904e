package main

import (
	"os"

	"github.com/MrEthical07/goJWT/cmd/jwtctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
