package repository

import "errors"

// ErrNotFound возвращается, когда строка с заданными id и владельцем отсутствует.
// Чужая задача и несуществующая задача для вызывающего неразличимы.
var ErrNotFound = errors.New("задача не найдена")
