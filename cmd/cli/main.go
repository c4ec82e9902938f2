package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"taskhub/internal/client"
	"taskhub/internal/model"
)

func main() {
	baseURL := os.Getenv("TASKHUB_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080/api"
	}

	app := &app{
		api:    client.New(baseURL, client.NewSession()),
		reader: bufio.NewReader(os.Stdin),
	}
	app.run()
}

type app struct {
	api    *client.API
	reader *bufio.Reader

	// tasks from the last listing, so commands can address them by number
	lastListing []model.Task
}

func (a *app) run() {
	fmt.Println("Task tracker client. Type 'help' for commands.")

	for {
		fmt.Print("> ")
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "help":
			a.help()
		case "register":
			a.register()
		case "login":
			a.login()
		case "logout":
			a.logout()
		case "whoami":
			a.whoami()
		case "list", "ls":
			a.list()
		case "add":
			a.add(strings.Join(args, " "))
		case "done":
			a.setStatus(args, model.TaskStatusCompleted)
		case "undone":
			a.setStatus(args, model.TaskStatusPending)
		case "edit":
			a.edit(args)
		case "delete", "rm":
			a.delete(args)
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command %q, type 'help'\n", cmd)
		}
	}
}

func (a *app) help() {
	fmt.Println(`Commands:
  register            create an account and sign in
  login               sign in
  logout              sign out
  whoami              show the current user profile
  list                list your tasks (newest first)
  add <title>         create a task
  done <n>            mark task n from the last listing completed
  undone <n>          mark task n pending again
  edit <n> <title>    rename task n
  delete <n>          delete task n
  quit                exit`)
}

func (a *app) prompt(label string) (string, error) {
	fmt.Printf("%s: ", label)
	value, err := a.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func (a *app) promptPassword(label string) (string, error) {
	fmt.Printf("%s: ", label)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func (a *app) register() {
	name, err := a.prompt("Name")
	if err != nil {
		return
	}
	email, err := a.prompt("Email")
	if err != nil {
		return
	}
	password, err := a.promptPassword("Password")
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	user, err := a.api.Register(context.Background(), name, email, password)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Printf("Registered and signed in as %s <%s>\n", user.Name, user.Email)
}

func (a *app) login() {
	email, err := a.prompt("Email")
	if err != nil {
		return
	}
	password, err := a.promptPassword("Password")
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	user, err := a.api.Login(context.Background(), email, password)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Printf("Signed in as %s <%s>\n", user.Name, user.Email)
}

func (a *app) logout() {
	if err := a.api.Logout(context.Background()); err != nil {
		fmt.Println(err.Error())
	}
	a.lastListing = nil
	fmt.Println("Signed out")
}

func (a *app) whoami() {
	user, err := a.api.Me(context.Background())
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Printf("%s <%s>\n", user.Name, user.Email)
}

func (a *app) list() {
	tasks, err := a.api.Tasks(context.Background())
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	a.lastListing = tasks

	if len(tasks) == 0 {
		fmt.Println("No tasks yet")
		return
	}
	for i, task := range tasks {
		marker := " "
		if task.Status == model.TaskStatusCompleted {
			marker = "x"
		}
		fmt.Printf("%3d [%s] %s\n", i+1, marker, task.Title)
		if task.Description != "" {
			fmt.Printf("        %s\n", task.Description)
		}
	}
}

func (a *app) add(title string) {
	if title == "" {
		fmt.Println("usage: add <title>")
		return
	}
	task, err := a.api.CreateTask(context.Background(), title, "")
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Printf("Added %q\n", task.Title)
}

// taskByNumber resolves a 1-based index from the last listing.
func (a *app) taskByNumber(args []string) (*model.Task, bool) {
	if len(args) < 1 {
		fmt.Println("usage: <command> <n>, where n is a number from 'list'")
		return nil, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(a.lastListing) {
		fmt.Println("no such task number, run 'list' first")
		return nil, false
	}
	return &a.lastListing[n-1], true
}

func (a *app) setStatus(args []string, status model.TaskStatus) {
	task, ok := a.taskByNumber(args)
	if !ok {
		return
	}

	statusStr := string(status)
	updated, err := a.api.UpdateTask(context.Background(), task.ID.String(), client.TaskPatch{Status: &statusStr})
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Printf("%q is now %s\n", updated.Title, updated.Status)
}

func (a *app) edit(args []string) {
	task, ok := a.taskByNumber(args)
	if !ok {
		return
	}
	if len(args) < 2 {
		fmt.Println("usage: edit <n> <new title>")
		return
	}

	title := strings.Join(args[1:], " ")
	updated, err := a.api.UpdateTask(context.Background(), task.ID.String(), client.TaskPatch{Title: &title})
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Printf("Renamed to %q\n", updated.Title)
}

func (a *app) delete(args []string) {
	task, ok := a.taskByNumber(args)
	if !ok {
		return
	}

	if err := a.api.DeleteTask(context.Background(), task.ID.String()); err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Printf("Deleted %q\n", task.Title)
}
