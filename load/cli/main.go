package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	defaultBaseURL     = "http://localhost:8080"
	defaultRate        = 5
	defaultDuration    = 60 * time.Second
	defaultTeamID      = "load-team"
	defaultProjectID   = "load-project"
	defaultResultsFile = "load/artifacts/results.bin"
)

var resultsFile = defaultResultsFile

func main() {
	var (
		baseURL   = flag.String("url", defaultBaseURL, "Base URL сервиса")
		rate      = flag.Int("rate", defaultRate, "Запросов в секунду")
		duration  = flag.Duration("duration", defaultDuration, "Длительность теста (например, 60s)")
		teamID    = flag.String("team", defaultTeamID, "ID команды, по которой читается аналитика")
		projectID = flag.String("project", defaultProjectID, "ID проекта для административного отчёта")
		setupOnly = flag.Bool("setup-only", false, "Только подготовка окружения (пакетные снимки)")
		report    = flag.Bool("report", false, "Показать отчёт из сохранённых результатов")
		plot      = flag.Bool("plot", false, "Сгенерировать HTML график из сохранённых результатов")
	)
	flag.Parse()

	if *report {
		showReport()
		return
	}

	if *plot {
		generatePlot()
		return
	}

	if *setupOnly {
		if err := setupSnapshots(*baseURL); err != nil {
			log.Fatalf("Ошибка при подготовке окружения: %v", err)
		}
		return
	}

	// Полный цикл: setup + нагрузочное тестирование
	fmt.Println("=== Нагрузочное тестирование с Vegeta ===")
	fmt.Printf("URL: %s\n", *baseURL)
	fmt.Printf("Rate: %d req/s\n", *rate)
	fmt.Printf("Duration: %s\n", *duration)
	fmt.Println()

	fmt.Println("1. Построение снимков всех типов...")
	if err := setupSnapshots(*baseURL); err != nil {
		log.Fatalf("Ошибка при подготовке окружения: %v", err)
	}

	fmt.Println()
	fmt.Println("2. Запуск нагрузочного тестирования чтения аналитики...")
	if err := runLoadTest(*baseURL, *rate, *duration, *teamID, *projectID); err != nil {
		log.Fatalf("Ошибка при нагрузочном тестировании: %v", err)
	}

	fmt.Println()
	fmt.Println("=== Тестирование завершено ===")
	fmt.Println("Для детального анализа выполните:")
	fmt.Printf("  go run ./load/cli -report\n")
	fmt.Printf("  go run ./load/cli -plot\n")
}

// setupSnapshots запускает пакетные проходы всех типов, чтобы чтение шло по непустой истории.
func setupSnapshots(baseURL string) error {
	var targets []vegeta.Target
	for _, kind := range []string{"admin", "kanban", "sprint", "release"} {
		body, err := json.Marshal(map[string]string{"kind": kind})
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		targets = append(targets, vegeta.Target{
			Method: http.MethodPost,
			URL:    baseURL + "/analytics/jobs/run",
			Header: http.Header{"Content-Type": []string{"application/json"}},
			Body:   body,
		})
	}

	attacker := vegeta.NewAttacker()
	var metrics vegeta.Metrics
	rate := vegeta.Rate{Freq: len(targets), Per: time.Second}
	for res := range attacker.Attack(vegeta.NewStaticTargeter(targets...), rate, time.Second, "setup") {
		metrics.Add(res)
	}
	metrics.Close()

	if metrics.StatusCodes["202"] == 0 {
		return fmt.Errorf("пакетные снимки не запущены: статус %v", metrics.StatusCodes)
	}

	fmt.Printf("Пакетные снимки построены: %v\n", metrics.StatusCodes)
	return nil
}

// runLoadTest запускает нагрузочное тестирование эндпоинтов чтения.
func runLoadTest(baseURL string, rate int, duration time.Duration, teamID, projectID string) error {
	if rate <= 0 {
		return fmt.Errorf("rate must be positive, got %d", rate)
	}
	targeter := newAnalyticsTargeter(baseURL, teamID, projectID)

	// Настраиваем атакующего
	workers := uint64(rate)
	attacker := vegeta.NewAttacker(
		vegeta.Timeout(30*time.Second),
		vegeta.Workers(workers),
	)

	var metrics vegeta.Metrics
	ctx, cancel := context.WithTimeout(context.Background(), duration+5*time.Second)
	defer cancel()

	rateLimit := vegeta.Rate{Freq: rate, Per: time.Second}
	results := attacker.Attack(targeter, rateLimit, duration, "load-test")

	var allResults []vegeta.Result
	for res := range results {
		if ctx.Err() != nil {
			attacker.Stop()
			continue
		}
		metrics.Add(res)
		allResults = append(allResults, *res)
	}
	metrics.Close()

	if err := saveResults(allResults); err != nil {
		return fmt.Errorf("сохранить результаты: %w", err)
	}

	reporter := vegeta.NewTextReporter(&metrics)
	if err := reporter(os.Stdout); err != nil {
		return fmt.Errorf("сгенерировать отчёт: %w", err)
	}

	return nil
}

// analyticsPaths перечисляет эндпоинты чтения, которые обходит нагрузка.
func analyticsPaths(teamID, projectID string) []string {
	team := url.Values{"team_id": {teamID}}.Encode()
	project := url.Values{"project_id": {projectID}}.Encode()
	return []string{
		"/analytics/sprints?" + team,
		"/analytics/releases?" + team,
		"/analytics/kanban?" + team,
		"/analytics/ticket-states?" + team,
		"/analytics/admin?" + project,
	}
}

// newAnalyticsTargeter обходит эндпоинты чтения по кругу.
func newAnalyticsTargeter(baseURL, teamID, projectID string) vegeta.Targeter {
	paths := analyticsPaths(teamID, projectID)
	var next atomic.Uint64
	return func(t *vegeta.Target) error {
		i := next.Add(1) - 1
		*t = vegeta.Target{
			Method: http.MethodGet,
			URL:    baseURL + paths[i%uint64(len(paths))],
		}
		return nil
	}
}

// saveResults сохраняет результаты в бинарный файл
func saveResults(results []vegeta.Result) error {
	if err := os.MkdirAll(filepath.Dir(resultsFile), 0o755); err != nil {
		return fmt.Errorf("создать директорию: %w", err)
	}

	file, err := os.Create(resultsFile)
	if err != nil {
		return fmt.Errorf("создать файл: %w", err)
	}
	defer file.Close()

	encoder := vegeta.NewEncoder(file)
	for i := range results {
		if err := encoder.Encode(&results[i]); err != nil {
			return fmt.Errorf("записать результат: %w", err)
		}
	}

	fmt.Printf("Результаты сохранены в %s\n", resultsFile)
	return nil
}

// showReport показывает отчёт из сохранённых результатов
func showReport() {
	if err := renderReport(os.Stdout, resultsFile); err != nil {
		log.Fatalf("Не удалось построить отчёт: %v", err)
	}
}

func renderReport(out io.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open results: %w", err)
	}
	defer file.Close()

	decoder := vegeta.NewDecoder(file)
	var metrics vegeta.Metrics

	for {
		var res vegeta.Result
		if err := decoder.Decode(&res); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("decode result: %w", err)
		}
		metrics.Add(&res)
	}
	metrics.Close()

	reporter := vegeta.NewTextReporter(&metrics)
	if err := reporter(out); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// generatePlot печатает команду построения HTML графика утилитой vegeta.
func generatePlot() {
	writePlotInstructions(os.Stdout)
}

func writePlotInstructions(out io.Writer) {
	fmt.Fprintln(out, "Для генерации HTML графика используйте CLI утилиту vegeta:")
	fmt.Fprintf(out, "  vegeta plot %s > load/artifacts/plot.html\n", resultsFile)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Установка CLI утилиты:")
	fmt.Fprintln(out, "  go install github.com/tsenart/vegeta/v12@latest")
}
