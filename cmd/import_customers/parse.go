package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/timereg-api/internal/application/dto"
)

type customerRow struct {
	line    int
	request dto.CreateCustomerRequest
}

// parseCustomers lee filas numero;nombre;email. numero vacío = asignar. Se ignora la cabecera
// si la primera columna de la primera fila no es numérica ni vacía.
func parseCustomers(r io.Reader, latin1 bool, comma rune) ([]customerRow, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []customerRow
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("línea %d: se esperan al menos 2 columnas (numero, nombre)", line)
		}
		num := strings.TrimSpace(rec[0])
		n := 0
		if num != "" {
			n, err = strconv.Atoi(num)
			if err != nil {
				if line == 1 {
					continue // cabecera
				}
				return nil, fmt.Errorf("línea %d: número inválido %q", line, num)
			}
		}
		row := customerRow{line: line, request: dto.CreateCustomerRequest{Number: n, Name: strings.TrimSpace(rec[1])}}
		if len(rec) > 2 {
			row.request.Email = strings.TrimSpace(rec[2])
		}
		out = append(out, row)
	}
	return out, nil
}
