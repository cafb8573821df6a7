package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func Bootstrap(projectName string) error {
	parts := strings.Split(projectName, "/")
	if len(parts) < 2 {
		return errors.New("project name should be fully qualified git repo name")
	}

	fmt.Printf("Bootstrapping %s\n", projectName)

	folderName, err := initializeGoProject(projectName)
	if err != nil {
		return err
	}

	err = createProjectStructure(folderName)
	if err != nil {
		return err
	}

	err = GenerateMain(projectName, folderName)
	if err != nil {
		return err
	}

	err = CopyGitIgnore(folderName)
	if err != nil {
		return err
	}

	err = CopyIniFile(folderName)
	if err != nil {
		return err
	}

	err = GenerateDockerFile(folderName)
	if err != nil {
		return err
	}

	err = GenerateProfileController(projectName, folderName)
	if err != nil {
		return err
	}

	err = GenerateProfileRepository(folderName)
	if err != nil {
		return err
	}

	return nil
}

func initializeGoProject(prjName string) (string, error) {
	folderName := filepath.Base(prjName)
	err := os.Mkdir(folderName, os.ModePerm)
	if err != nil {
		return "", err
	}

	err = runGoModInit(prjName, folderName)
	if err != nil {
		return "", err
	}

	return folderName, nil
}

func createProjectStructure(folderName string) error {
	err := os.Mkdir(filepath.Join(folderName, "db"), os.ModePerm)
	if err != nil {
		return err
	}

	err = os.Mkdir(filepath.Join(folderName, "controllers"), os.ModePerm)
	if err != nil {
		return err
	}

	return nil
}
