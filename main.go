// Copyright © 2024 The vuehelper authors

package main

import "github.com/luthersystems/vuehelper/cmd"

func main() {
	cmd.Execute()
}
