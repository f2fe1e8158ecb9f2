package main

import "dispatchhub_backend/internal/app"

func main() {
	app.Run()
}
