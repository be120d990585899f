package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{})

	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("Run failed")
		os.Exit(1)
	}
}
