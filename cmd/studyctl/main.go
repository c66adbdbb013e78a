package main

import "github.com/dtereshkin/studykit/cmd/studyctl/cmd"

func main() {
	cmd.Execute()
}
