package main

import (
	"github.com/urfave/cli"

	"tso2mqo/internal/log"
)

var logger = log.New("tso2mqo")

func setupLogging(ctx *cli.Context) error {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
	return nil
}
