package util

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/manifoldco/promptui"
)

var (
	IsDebug        bool
	minQueryLength = 2

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4757")).
			Bold(true)

	debugErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF4757")).
			Padding(1, 2)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA726")).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#14B8A6")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#22C55E")).
			Bold(true)
)

// SetDebugMode sets the debug mode
func SetDebugMode(debug bool) {
	IsDebug = debug
}

// ErrorHandler returns a stylized error message.
// In debug mode the full error chain with stack (%+v) is shown.
func ErrorHandler(err error) string {
	if IsDebug {
		header := errorStyle.Render("DEBUG ERROR")
		return fmt.Sprintf("%s\n%s", header, debugErrorStyle.Render(fmt.Sprintf("%+v", err)))
	}

	styledError := errorStyle.Render(fmt.Sprintf("✗ %v", err))
	styledHint := warningStyle.Render("run the program with -debug to see details")
	return fmt.Sprintf("%s\n%s", styledError, styledHint)
}

// Success renders a confirmation line
func Success(msg string) string {
	return successStyle.Render("✓ " + msg)
}

// ValidateQuery trims a search query and checks its length
func ValidateQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minQueryLength {
		return "", fmt.Errorf("search query must have at least %d characters, you entered: %q", minQueryLength, query)
	}
	return query, nil
}

// GetQuery prompts the user for a search query
func GetQuery(label string) (string, error) {
	if runtime.GOOS == "windows" {
		return getSimpleInput(label)
	}

	prompt := promptui.Prompt{
		Label: promptStyle.Render(label),
		Validate: func(s string) error {
			_, err := ValidateQuery(s)
			return err
		},
	}

	query, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return ValidateQuery(query)
}

// getSimpleInput provides a fallback input method for Windows consoles
func getSimpleInput(label string) (string, error) {
	fmt.Print(promptStyle.Render(label + ": "))

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return ValidateQuery(line)
}

// SelectMenuItem provides a cross-platform way to select from a short menu
func SelectMenuItem(label string, items []string) (int, string, error) {
	if runtime.GOOS == "windows" {
		return simpleSelectMenu(label, items)
	}

	prompt := promptui.Select{
		Label: promptStyle.Render(label),
		Items: items,
		Size:  10,
	}

	index, result, err := prompt.Run()
	if err != nil {
		return -1, "", err
	}
	return index, result, nil
}

func simpleSelectMenu(label string, items []string) (int, string, error) {
	fmt.Println(promptStyle.Render(label))
	for i, item := range items {
		fmt.Printf("%d. %s\n", i+1, item)
	}

	fmt.Print(promptStyle.Render(fmt.Sprintf("Enter selection (1-%d): ", len(items))))
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return -1, "", err
	}

	input = strings.TrimSpace(input)
	var selection int
	if _, err := fmt.Sscanf(input, "%d", &selection); err != nil || selection < 1 || selection > len(items) {
		return -1, "", fmt.Errorf("invalid selection: %s", input)
	}
	selection--
	return selection, items[selection], nil
}
