package history

import "time"

// StorageKey это ключ коллекции; клиентские хранилища добавляют ":<clientID>".
const StorageKey = "interview-history"

// Record это одно сохранённое интервью. Имена полей совпадают с хранимым JSON.
// Questions хранит ответ модели как есть, а не разобранный список.
type Record struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	JobDescription string    `json:"job_description"`
	Questions      string    `json:"questions"`
	CreatedAt      time.Time `json:"created_at"`
	// Score зарезервирован, пока ничем не вычисляется.
	Score *float64 `json:"score,omitempty"`
}

// Draft это запись до присвоения id и времени создания.
type Draft struct {
	Title          string
	JobDescription string
	Questions      string
	Score          *float64
}

// Patch несёт изменяемые поля; nil означает «без изменений».
type Patch struct {
	Title          *string
	JobDescription *string
	Questions      *string
	Score          *float64
}
