package main

import (
	"os"

	"github.com/abhisek/studyplan/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
