// Package txncode генерирует человекочитаемые коды транзакций для
// заказов. Код вида 20250101-120000-5000 лексикографически сортируется
// по дате и набирается вручную.
//
// Генератор вероятностный: глобальную уникальность он не гарантирует,
// её обеспечивает уникальный индекс по коду на стороне хранилища —
// повторный Create с тем же кодом отклоняется.
package txncode

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const (
	// Диапазон случайного суффикса, включительно.
	randMin = 1000
	randMax = 9998
)

// Generator выдаёт коды транзакций. Один экземпляр разделяется всеми
// обработчиками, поэтому доступ к источнику случайности сериализуется
// мьютексом: *rand.Rand сам по себе не потокобезопасен. Генератор с
// фиксированным seed детерминирован и используется в тестах.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New возвращает генератор со временем в качестве seed.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed возвращает детерминированный генератор для тестов.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate формирует код для момента t: дата, время до секунды и
// четырёхзначный случайный суффикс из [1000, 9998].
func (g *Generator) Generate(t time.Time) string {
	g.mu.Lock()
	suffix := randMin + g.rng.Intn(randMax-randMin+1)
	g.mu.Unlock()
	return fmt.Sprintf("%04d%02d%02d-%02d%02d%02d-%04d",
		t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(),
		suffix)
}
