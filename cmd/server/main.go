package main

import "workportal/internal/app/server"

func main() {
	server.Run()
}
