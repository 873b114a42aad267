package main

import "os"

// @title        Plant Buddy API
// @version      1.0
// @description  Plant registry, care reminders, weather-risk alerts and photo health logs.
// @BasePath     /
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
