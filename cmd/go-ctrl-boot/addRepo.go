package main

import (
	"errors"
	"fmt"
	"strings"
)

// Runs inside the project folder.
func AddRepository(modelName string) error {
	if strings.Contains(modelName, "Model") || strings.Contains(modelName, "Repo") {
		return errors.New("pass only root name of db model/repo")
	}

	fmt.Printf("Adding repository %sRepository\n", modelName)

	return GenerateRepo(modelName)
}
