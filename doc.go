/*
Package go-ctrl-boot is a batteries-included framework for building controller-based HTTP APIs in Go.

Official Repository: https://github.com/ctrlware/go-ctrl-boot

go-ctrl-boot provides a comprehensive solution for building modern API services with:
- Controller route binding with compile-once injection plans
- Parameter resolution from path values, per-request caches and the DI container
- Custom fluent dependency injection container
- Generic MongoDB ODM built on the v2 driver
- Zero-config SSL/TLS with automatic Let's Encrypt certificates
- Temporal workflow integration for long-running processes
- Bootstrap CLI for rapid project scaffolding

Quick Start:

	go install github.com/ctrlware/go-ctrl-boot/cmd/go-ctrl-boot@latest
	go-ctrl-boot bootstrap github.com/yourname/myservice

Package Import:

	import "github.com/ctrlware/go-ctrl-boot/server"
	import "github.com/ctrlware/go-ctrl-boot/rest"
	import "github.com/ctrlware/go-ctrl-boot/odm"
	import "github.com/ctrlware/go-ctrl-boot/auth"

Examples and documentation: https://github.com/ctrlware/go-ctrl-boot
*/
package boot
