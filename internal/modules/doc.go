// Package modules contains the self-contained application features.
//
// Each subdirectory is a module implementing `module.Module`. Modules are
// listed in `internal/app/modules.go`, registered with the injector by
// `server.New` and mounted under "/"+Name() at boot.
package modules
