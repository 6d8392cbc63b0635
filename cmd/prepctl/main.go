package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"disasterprep/internal/apiclient"
	"disasterprep/internal/config"
	"disasterprep/internal/session"
)

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = []command{
	{"login", "login -u <username> [-p <password>]    Sign in and save the session", cmdLogin},
	{"logout", "logout                                 Clear the saved session", cmdLogout},
	{"whoami", "whoami [-remote]                       Show the signed-in user", cmdWhoami},
	{"tabs", "tabs                                   List the tabs and actions for your role", cmdTabs},
	{"dashboard", "dashboard                              Load and summarize your dashboard", cmdDashboard},
	{"modules", "modules                                List learning modules and your progress", cmdModules},
	{"watch", "watch <module-id>                      Mark a module's video as watched", cmdWatch},
	{"quiz", "quiz [-answers 1,3,2] <module-id>     Take a module's quiz", cmdQuiz},
	{"drill", "drill [-type <drill type>]             Record drill participation", cmdDrill},
	{"alerts", "alerts [list|create ...]               List or create alerts", cmdAlerts},
	{"contacts", "contacts                               List emergency contacts", cmdContacts},
	{"predict", "predict -city <city>                   Request a disaster risk assessment", cmdPredict},
	{"predictions", "predictions                            List past risk assessments", cmdPredictions},
	{"leaderboard", "leaderboard                            Show the student leaderboard", cmdLeaderboard},
	{"students", "students                               Show class progress (teacher, admin)", cmdStudents},
	{"teachers", "teachers                               Show teacher activity (admin)", cmdTeachers},
	{"users", "users                                  List all accounts (admin)", cmdUsers},
	{"quizzes", "quizzes [list|create|update|delete]    Manage your quizzes (teacher)", cmdQuizzes},
}

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	name := os.Args[1]
	if name == "help" || name == "-h" || name == "--help" {
		printUsage()
		return
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == name {
			cmd = &commands[i]
			break
		}
	}
	if cmd == nil {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	a, err := newApp(cfg, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	err = cmd.run(ctx, a, os.Args[2:])
	a.close()
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoSession):
			fmt.Fprintln(os.Stderr, "Not logged in. Run: prepctl login -u <username>")
		case errors.Is(err, apiclient.ErrAuthentication):
			fmt.Fprintln(os.Stderr, "Invalid credentials. Please try again.")
		case errors.Is(err, apiclient.ErrAuthorization):
			var apiErr *apiclient.APIError
			if errors.As(err, &apiErr) && apiErr.TokenRejected() {
				fmt.Fprintln(os.Stderr, "Your session has expired. Run: prepctl login")
			} else {
				fmt.Fprintf(os.Stderr, "Not authorized: %v\n", err)
			}
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("prepctl - school disaster preparedness client")
	fmt.Println()
	fmt.Println("Usage:")
	for _, c := range commands {
		fmt.Printf("  prepctl %s\n", c.usage)
	}
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  PREP_API_URL          API base URL (default: http://localhost:8001/api)")
	fmt.Println("  PREP_SESSION_STORE    file, memory, sqlite, postgres or mysql (default: file)")
	fmt.Println("  PREP_SESSION_FILE     Session file path (default: ~/.prepctl/session.json)")
	fmt.Println("  PREP_SESSION_KEY      Passphrase used to encrypt the saved token")
	fmt.Println("  DB_PATH               SQLite path for the sqlite session store")
	fmt.Println("  DATABASE_URL          PostgreSQL or MySQL URL for SQL session stores")
	fmt.Println("  SES_FROM_EMAIL        Sender for urgent alert e-mails (disabled when unset)")
	fmt.Println("  ALERT_BROADCAST_TO    Comma separated recipients for urgent alert e-mails")
	fmt.Println("  DEBUG                 Log every request")
}
