// Command console is the single-user console CRUD tool. It runs the same
// task service as the web API over the in-memory store; nothing is
// persisted between runs.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mkhalid/tasklist/internal/models"
	"github.com/mkhalid/tasklist/internal/store"
	"github.com/mkhalid/tasklist/internal/task"
)

const menu = `
===== Todo =====
1. Add task
2. View tasks
3. Update task
4. Delete task
5. Toggle complete
6. Exit
`

func main() {
	ctx := context.Background()
	mem := store.NewMemoryStore(nil)

	// The console runs unauthenticated; all tasks belong to one local
	// identity so the service's ownership scoping still applies.
	owner, err := mem.CreateIdentity(ctx, "console@localhost", "")
	if err != nil {
		log.Fatalf("seed identity: %v", err)
	}
	svc := task.NewService(mem)

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(menu, "Choice: ")
		choice := readLine(in)

		var err error
		switch choice {
		case "1":
			err = addTask(ctx, svc, owner.ID, in)
		case "2":
			err = viewTasks(ctx, svc, owner.ID)
		case "3":
			err = updateTask(ctx, svc, owner.ID, in)
		case "4":
			err = deleteTask(ctx, svc, owner.ID, in)
		case "5":
			err = toggleTask(ctx, svc, owner.ID, in)
		case "6":
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Invalid choice. Please enter a number between 1 and 6.")
			continue
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}

func addTask(ctx context.Context, svc *task.Service, ownerID string, in *bufio.Scanner) error {
	fmt.Print("Title: ")
	title := readLine(in)
	fmt.Print("Description (optional): ")
	description := readLine(in)

	t, err := svc.Create(ctx, ownerID, models.TaskRequest{Title: title, Description: description})
	if err != nil {
		return err
	}
	fmt.Printf("Added %q\n", t.Title)
	return nil
}

func viewTasks(ctx context.Context, svc *task.Service, ownerID string) error {
	tasks, err := svc.List(ctx, ownerID)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks yet.")
		return nil
	}
	for i, t := range tasks {
		status := " "
		if t.Completed {
			status = "x"
		}
		fmt.Printf("%d. [%s] %s", i+1, status, t.Title)
		if t.Description != "" {
			fmt.Printf(" — %s", t.Description)
		}
		fmt.Printf("\n   id: %s\n", t.ID)
	}
	return nil
}

func updateTask(ctx context.Context, svc *task.Service, ownerID string, in *bufio.Scanner) error {
	fmt.Print("Task id: ")
	id := readLine(in)

	current, err := svc.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}

	// The keep-current sentinel is an empty line here at the prompt; the
	// service itself only does full replaces.
	fmt.Printf("New title (enter to keep %q): ", current.Title)
	title := readLine(in)
	if title == "" {
		title = current.Title
	}
	fmt.Print("New description (enter to keep current): ")
	description := readLine(in)
	if description == "" {
		description = current.Description
	}

	updated, err := svc.Update(ctx, ownerID, id, models.TaskRequest{Title: title, Description: description})
	if err != nil {
		return err
	}
	fmt.Printf("Updated %q\n", updated.Title)
	return nil
}

func deleteTask(ctx context.Context, svc *task.Service, ownerID string, in *bufio.Scanner) error {
	fmt.Print("Task id: ")
	id := readLine(in)
	if err := svc.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	fmt.Println("Task deleted.")
	return nil
}

func toggleTask(ctx context.Context, svc *task.Service, ownerID string, in *bufio.Scanner) error {
	fmt.Print("Task id: ")
	id := readLine(in)
	t, err := svc.Toggle(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if t.Completed {
		fmt.Printf("%q marked complete.\n", t.Title)
	} else {
		fmt.Printf("%q marked incomplete.\n", t.Title)
	}
	return nil
}

func readLine(in *bufio.Scanner) string {
	if !in.Scan() {
		os.Exit(0)
	}
	return strings.TrimRight(in.Text(), "\r\n")
}
