// cmd/distle/main.go
package main

import (
	"github.com/KHajji/distle/internal/app"
	"github.com/KHajji/distle/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
