package main

import (
	"os"

	"tarediiran-industries.com/side-services/internal/web/side_web"
)

func main() {
	os.Exit(side_web.Main(os.Args[0], os.Args[1:], os.Stdout, os.Stderr))
}
