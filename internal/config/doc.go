// Package config provides configuration parsing for morphonent servers.
//
// The configuration is stored in morphonent.yaml (or any .json file). Fields
// a file leaves out keep their defaults; a few can be overridden from the
// environment (MORPHONENT_PORT, MORPHONENT_HOST, MORPHONENT_LOG_LEVEL,
// MORPHONENT_APP).
//
// # Configuration File Structure
//
//	name: counter demo
//	server:
//	  host: 0.0.0.0
//	  port: 8080
//	  app: counter
//	  heartbeatInterval: 30s
//	  maxMessageBytes: 65536
//	render:
//	  markerAttr: data-morphonent-id
//	  textMarkers: true
//	metrics:
//	  enabled: true
//	  path: /metrics
//	log:
//	  level: debug
//	  format: json
//
// # Usage
//
//	cfg, err := config.LoadFile("morphonent.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Listening on", cfg.Address())
package config
