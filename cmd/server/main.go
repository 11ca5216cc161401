package main

import "crmdashboard/internal/app"

func main() {
	app.Run()
}
