package main

import (
	"fmt"
	"io"
	"os"

	"github.com/SlpAus/water-wars-backend/internal/cli"
	"github.com/google/logger"
)

func main() {
	// 运维命令不输出运行日志，stdout只用于输出结果
	defer logger.Init("waterctl", false, false, io.Discard).Close()

	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
