// Package geo содержит вычисление расстояния между географическими
// координатами по формуле гаверсинуса. Подбор анкет по радиусу — это
// линейный проход по кандидатам, пространственный индекс не используется.
package geo

import "math"

// earthRadiusKm — средний радиус Земли в километрах.
const earthRadiusKm = 6371.0

// DistanceKm возвращает расстояние в километрах между двумя точками,
// заданными широтой и долготой в градусах.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// WithinRadius сообщает, находится ли вторая точка в пределах radiusKm
// километров от первой.
func WithinRadius(lat1, lon1, lat2, lon2, radiusKm float64) bool {
	return DistanceKm(lat1, lon1, lat2, lon2) <= radiusKm
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
