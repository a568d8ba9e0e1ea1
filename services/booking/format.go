package booking

import (
	"fmt"
	"time"
)

// Fixed pt-BR names; the confirmation template is not user-selectable.
var weekdaysPtBR = [7]string{
	"domingo",
	"segunda-feira",
	"terça-feira",
	"quarta-feira",
	"quinta-feira",
	"sexta-feira",
	"sábado",
}

var monthsPtBR = [12]string{
	"janeiro",
	"fevereiro",
	"março",
	"abril",
	"maio",
	"junho",
	"julho",
	"agosto",
	"setembro",
	"outubro",
	"novembro",
	"dezembro",
}

// FormatConfirmation renders the confirmation line for a created
// appointment, e.g. 2020-06-15T09:00 ->
// "segunda-feira, dia 15 de junho de 2020 às 09:00h".
func FormatConfirmation(t time.Time) string {
	return fmt.Sprintf("%s, dia %02d de %s de %d às %02d:%02dh",
		weekdaysPtBR[t.Weekday()],
		t.Day(),
		monthsPtBR[t.Month()-1],
		t.Year(),
		t.Hour(),
		t.Minute(),
	)
}
