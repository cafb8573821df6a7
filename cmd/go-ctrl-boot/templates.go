package main

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed templates/*
var templatesFS embed.FS

func GenerateMain(projectPath, folderName string) error {
	data := map[string]string{
		"ProjectPath": projectPath,
	}

	return generateCode(folderName, "templates/main.go.tmpl", "main.go", data)
}

func GenerateDockerFile(folderName string) error {
	return generateCode(folderName, "templates/Dockerfile.tmpl", "Dockerfile", map[string]string{"ExeName": folderName})
}

func CopyGitIgnore(folderName string) error {
	return generateCode(folderName, "templates/gitignore.tmpl", ".gitignore", map[string]string{})
}

func CopyIniFile(folderName string) error {
	return generateCode(folderName, "templates/config.ini.tmpl", "config.ini", map[string]string{})
}

func GenerateRepo(modelName string) error {
	data := map[string]string{
		"ModelName":      modelName,
		"CollectionName": strings.ToLower(modelName),
	}

	return generateCode("db", "templates/repo.go.tmpl", modelName+"Repository.go", data)
}

func GenerateController(controllerName, projectPath string) error {
	data := map[string]string{
		"ControllerName": controllerName,
		"RoutePrefix":    strings.ToLower(controllerName),
		"ProjectPath":    projectPath,
	}

	return generateCode("controllers", "templates/controller.go.tmpl", controllerName+"Controller.go", data)
}

func GenerateProfileController(projectPath, folderName string) error {
	data := map[string]string{
		"ControllerName": "Profile",
		"RoutePrefix":    "profile",
		"ProjectPath":    projectPath,
	}

	return generateCode(filepath.Join(folderName, "controllers"), "templates/controller.go.tmpl", "profileController.go", data)
}

func GenerateProfileRepository(folderName string) error {
	data := map[string]string{
		"ModelName":      "Profile",
		"CollectionName": "profile",
	}

	return generateCode(filepath.Join(folderName, "db"), "templates/repo.go.tmpl", "profileRepository.go", data)
}

func generateCode(folderName, templatePath, fileName string, templateData interface{}) error {
	tmpl, err := template.ParseFS(templatesFS, templatePath)
	if err != nil {
		return err
	}

	file, err := os.Create(filepath.Join(folderName, fileName))
	if err != nil {
		return err
	}

	defer file.Close()
	return tmpl.Execute(file, templateData)
}
