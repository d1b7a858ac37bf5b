package main

import (
	_ "time/tzdata"

	"boostiq/app"
)

func main() {
	app.Run()
}
