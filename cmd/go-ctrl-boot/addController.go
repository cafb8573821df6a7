package main

import (
	"errors"
	"fmt"
	"strings"
)

// Runs inside the project folder.
func AddController(controllerName string) error {
	if strings.Contains(controllerName, "Controller") {
		return errors.New("pass only root name of controller")
	}

	fmt.Printf("Adding controller %sController\n", controllerName)

	projectName, err := GetProjectName()
	if err != nil {
		return err
	}

	return GenerateController(controllerName, projectName)
}
