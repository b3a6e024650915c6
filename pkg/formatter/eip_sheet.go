package formatter

import "github.com/younsl/awsaudit/internal/models"

// WriteUnusedEIPs adds the "Unused Elastic IPs" sheet
func (w *Workbook) WriteUnusedEIPs(eips []models.EIPInfo) (int, error) {
	s, err := w.newSheet("Unused Elastic IPs", []float64{20, 22, 16, 30, 25},
		"Elastic Public IP", "Assigned to Instance", "Instance State", "Instance Name", "Instance ID")
	if err != nil {
		return 0, err
	}

	for _, eip := range eips {
		if err := s.add(eip.PublicIP, s.flag(eip.Assigned(), "YES", "NO"), eip.InstanceState, eip.InstanceName, eip.InstanceID); err != nil {
			return 0, err
		}
	}
	return s.done(), nil
}
