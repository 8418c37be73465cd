package domain

import "errors"

// Доменные ошибки аналитики.
// Преобразуются в HTTP-ответы в слое обработчиков.
var (
	ErrStorageRead      = errors.New("storage read failed")    // Не удалось прочитать проекты, команды, тикеты, спринты, релизы или снимки.
	ErrStorageWrite     = errors.New("storage write failed")   // Не удалось сохранить снимок.
	ErrProjectNotFound  = errors.New("project not found")      // Проект не существует или не активен.
	ErrTeamNotFound     = errors.New("team not found")         // Команда не найдена.
	ErrSprintNotFound   = errors.New("sprint not found")       // Спринт не найден.
	ErrReleaseNotFound  = errors.New("release not found")      // Релиз не найден.
	ErrUnknownBatchKind = errors.New("unknown analytics kind") // Неизвестный тип пакетного снимка.
	ErrInvalidInput     = errors.New("invalid input")          // Некорректные входные данные запроса.
)
