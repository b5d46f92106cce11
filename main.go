package main

import "github.com/ValentinKolb/rediDB/cmd"

func main() {
	cmd.Execute()
}
