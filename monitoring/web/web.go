// Package web includes the static web page of the monitoring tool.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
	"path"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

//go:embed static/*
var staticAssets embed.FS

// GetAssets returns the static assets.
func GetAssets() http.FileSystem {
	if isDevelopmentMode() {
		_, assetPath, _, ok := runtime.Caller(0)
		if !ok {
			panic("error getting path")
		}

		assetPath = path.Join(path.Dir(assetPath), "static")

		logrus.WithField("path", assetPath).
			Info("Monitoring tool in development mode")

		return http.Dir(assetPath)
	}

	subFS, err := fs.Sub(staticAssets, "static")
	if err != nil {
		panic(err)
	}

	return http.FS(subFS)
}

// isDevelopmentMode returns true if the environment variable
// PARTSIM_MONITOR_DEV is set to true, in which case the pages are served from
// the source tree.
func isDevelopmentMode() bool {
	evValue, exist := os.LookupEnv("PARTSIM_MONITOR_DEV")
	if !exist {
		return false
	}

	return strings.ToLower(evValue) == "true" || evValue == "1"
}
