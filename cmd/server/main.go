package main

import (
	"github.com/jlindh/ordgrid/internal/cli"
)

func main() {
	cli.Execute()
}
