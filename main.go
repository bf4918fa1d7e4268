package main

import "github.com/yeremiapane/menu-admin/cmd"

func main() {
	cmd.Execute()
}
