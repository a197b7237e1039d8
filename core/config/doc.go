// Package config loads the settings of a tool loop from a YAML file, .env
// files and TOOLLOOP_* environment variables, in increasing order of
// precedence.
//
//	cfg, err := config.Load("toolloop.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	toolkit, err := react.NewToolkit(provider, react.WithConfig(cfg))
package config
