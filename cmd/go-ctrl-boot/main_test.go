package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

// helper to execute command strings
func execute(t *testing.T, root *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	_, err := root.ExecuteC()
	return buf.String(), err
}

func TestBootstrapInvoked(t *testing.T) {
	var gotProj string
	bootstrapFn = func(proj string) error {
		gotProj = proj
		return nil
	}
	defer func() { bootstrapFn = Bootstrap }()

	_, err := execute(t, NewRoot(), "bootstrap", "github.com/example/myproj")
	assert.NoError(t, err)
	assert.Equal(t, "github.com/example/myproj", gotProj)
}

func TestRepositoryInvoked(t *testing.T) {
	var got string
	addRepoFn = func(m string) error {
		got = m
		return nil
	}
	defer func() { addRepoFn = AddRepository }()

	_, err := execute(t, NewRoot(), "repository", "User")
	assert.NoError(t, err)
	assert.Equal(t, "User", got)
}

func TestControllerInvoked(t *testing.T) {
	var got string
	addControllerFn = func(c string) error {
		got = c
		return nil
	}
	defer func() { addControllerFn = AddController }()

	_, err := execute(t, NewRoot(), "controller", "Auth")
	assert.NoError(t, err)
	assert.Equal(t, "Auth", got)
}

func TestBootstrap_ArgCountError(t *testing.T) {
	// no stubs needed: we want cobra validation to fail
	_, err := execute(t, NewRoot(), "bootstrap")
	assert.Error(t, err)
}
