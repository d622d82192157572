package main

import "github.com/jaki95/video-factory/cmd"

func main() {
	cmd.Execute()
}
